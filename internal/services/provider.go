package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/formsmith/formsmith-backend/internal/config"
	"github.com/formsmith/formsmith-backend/internal/logger"
)

// Provider failure taxonomy. Every provider client normalizes its own
// failures into one of these four kinds; callers never see a provider's raw
// error type. Classification is best-effort, not exhaustive: anything
// unrecognized propagates as ErrProviderUpstream.
var (
	ErrProviderMissingCredential = errors.New("provider API key is not set")
	ErrProviderInvalidCredential = errors.New("provider rejected the API key")
	ErrProviderQuotaExceeded     = errors.New("provider quota exceeded")
	ErrProviderUpstream          = errors.New("provider request failed")
)

// GenerateOptions carries the sampling parameters for one generation call.
// Each client maps them onto its own parameter names.
type GenerateOptions struct {
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
}

// TextProvider is the single contract the synthesis pipeline depends on.
// Implementations differ (chat-completion vs raw text-completion) but all
// present generate(prompt, options) -> raw text.
type TextProvider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// NewTextProvider selects the configured provider backend. The returned
// client is constructed once per process and is read-only afterwards.
func NewTextProvider(cfg *config.Config, log *logger.Logger) (TextProvider, error) {
	switch cfg.Provider {
	case config.ProviderCohere:
		return NewCohereClient(cfg, log)
	case config.ProviderGemini:
		return NewGeminiClient(cfg, log)
	case config.ProviderHuggingFace:
		return NewHuggingFaceClient(cfg, log)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

type providerHTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *providerHTTPError) Error() string {
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, e.Body)
}

// classifyProviderError maps a transport or HTTP failure into the taxonomy
// by status code and substring inspection of the provider's message. The
// raw message is preserved via wrapping so handlers can log the detail.
func classifyProviderError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrProviderUpstream, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrProviderUpstream, err)
	}

	var httpErr *providerHTTPError
	if errors.As(err, &httpErr) {
		body := strings.ToLower(httpErr.Body)
		switch {
		case httpErr.StatusCode == 401 || httpErr.StatusCode == 403,
			strings.Contains(body, "api key"),
			strings.Contains(body, "api_key"),
			strings.Contains(body, "invalid token"):
			return fmt.Errorf("%w: %s", ErrProviderInvalidCredential, httpErr.Body)
		case httpErr.StatusCode == 429,
			strings.Contains(body, "quota"),
			strings.Contains(body, "rate limit"):
			return fmt.Errorf("%w: %s", ErrProviderQuotaExceeded, httpErr.Body)
		case strings.Contains(body, "pro subscription"),
			strings.Contains(body, "subscription"):
			return fmt.Errorf("%w: this model requires an upgraded provider plan: %s", ErrProviderUpstream, httpErr.Body)
		default:
			return fmt.Errorf("%w: %s", ErrProviderUpstream, httpErr.Body)
		}
	}
	return fmt.Errorf("%w: %v", ErrProviderUpstream, err)
}
