package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/formsmith/formsmith-backend/internal/config"
	"github.com/formsmith/formsmith-backend/internal/logger"
)

// cachedProvider wraps a TextProvider with a short-TTL Redis read-through
// cache keyed by provider, model, prompt and sampling parameters. The cache
// is strictly best-effort: any Redis failure is logged and the call falls
// through to the wrapped provider.
type cachedProvider struct {
	inner TextProvider
	rdb   *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedProvider returns the provider unchanged when no Redis address is
// configured.
func NewCachedProvider(inner TextProvider, cfg *config.Config, log *logger.Logger) TextProvider {
	if cfg.RedisAddr == "" {
		return inner
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return &cachedProvider{
		inner: inner,
		rdb:   rdb,
		ttl:   time.Duration(cfg.CacheTTLSeconds) * time.Second,
		log:   log.With("service", "CachedProvider", "provider", inner.Name()),
	}
}

func (c *cachedProvider) Name() string  { return c.inner.Name() }
func (c *cachedProvider) Model() string { return c.inner.Model() }

func (c *cachedProvider) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	key := c.cacheKey(prompt, opts)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil && cached != "" {
		c.log.Debug("Provider cache hit", "key", key)
		return cached, nil
	}
	if err != nil && err != redis.Nil {
		c.log.Warn("Provider cache read failed", "key", key, "error", err)
	}

	text, genErr := c.inner.Generate(ctx, prompt, opts)
	if genErr != nil {
		return "", genErr
	}

	if setErr := c.rdb.Set(ctx, key, text, c.ttl).Err(); setErr != nil {
		c.log.Warn("Provider cache write failed", "key", key, "error", setErr)
	}
	return text, nil
}

func (c *cachedProvider) cacheKey(prompt string, opts GenerateOptions) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%.3f|%.3f|%d|%d|", c.inner.Name(), c.inner.Model(), opts.Temperature, opts.TopP, opts.TopK, opts.MaxTokens)
	h.Write([]byte(prompt))
	return "formsmith:gen:" + hex.EncodeToString(h.Sum(nil))
}
