package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/formsmith/formsmith-backend/internal/logger"
	"github.com/formsmith/formsmith-backend/internal/utils"
)

const (
	ProviderCohere      = "cohere"
	ProviderGemini      = "gemini"
	ProviderHuggingFace = "huggingface"
)

// GenerationConfig holds the sampling parameters handed to whichever
// provider is active. Zero values mean "use the provider default".
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	TopK        int     `yaml:"top_k"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Config is the full process configuration. It is built once at startup
// from environment variables plus an optional YAML override file and is
// read-only afterwards; nothing else in the codebase reads the environment.
type Config struct {
	Port            string
	LogMode         string
	JWTSecret       string
	RedisAddr       string
	CacheTTLSeconds int

	Provider   string
	Generation GenerationConfig

	CohereAPIKey       string
	CohereBaseURL      string
	GeminiAPIKey       string
	GeminiBaseURL      string
	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string

	ProviderTimeoutSeconds int
}

type fileConfig struct {
	Provider   string           `yaml:"provider"`
	Generation GenerationConfig `yaml:"generation"`
}

func Load(log *logger.Logger) (*Config, error) {
	cfg := &Config{
		Port:            utils.GetEnv("PORT", "8080", log),
		LogMode:         utils.GetEnv("LOG_MODE", "development", log),
		JWTSecret:       utils.GetEnv("JWT_SECRET_KEY", "", nil),
		RedisAddr:       utils.GetEnv("REDIS_ADDR", "", log),
		CacheTTLSeconds: utils.GetEnvAsInt("PROVIDER_CACHE_TTL_SECONDS", 300, log),

		Provider: strings.ToLower(utils.GetEnv("FORM_AI_PROVIDER", ProviderCohere, log)),
		Generation: GenerationConfig{
			Model:       utils.GetEnv("FORM_AI_MODEL", "", log),
			Temperature: utils.GetEnvAsFloat("FORM_AI_TEMPERATURE", 0.7, log),
			TopP:        utils.GetEnvAsFloat("FORM_AI_TOP_P", 0.9, log),
			TopK:        utils.GetEnvAsInt("FORM_AI_TOP_K", 0, log),
			MaxTokens:   utils.GetEnvAsInt("FORM_AI_MAX_TOKENS", 1024, log),
		},

		CohereAPIKey:       utils.GetEnv("COHERE_API_KEY", "", nil),
		CohereBaseURL:      utils.GetEnv("COHERE_BASE_URL", "https://api.cohere.com", log),
		GeminiAPIKey:       utils.GetEnv("GEMINI_API_KEY", "", nil),
		GeminiBaseURL:      utils.GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1", log),
		HuggingFaceAPIKey:  utils.GetEnv("HUGGINGFACE_API_KEY", "", nil),
		HuggingFaceBaseURL: utils.GetEnv("HUGGINGFACE_BASE_URL", "https://api-inference.huggingface.co", log),

		ProviderTimeoutSeconds: utils.GetEnvAsInt("FORM_AI_TIMEOUT_SECONDS", 60, log),
	}

	if path := utils.GetEnv("FORM_AI_CONFIG", "", log); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
		if log != nil {
			log.Info("Applied YAML config overrides", "path", path)
		}
	}

	switch cfg.Provider {
	case ProviderCohere, ProviderGemini, ProviderHuggingFace:
	default:
		return nil, fmt.Errorf("unknown provider %q (want cohere, gemini or huggingface)", cfg.Provider)
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.Provider != "" {
		c.Provider = strings.ToLower(fc.Provider)
	}
	if fc.Generation.Model != "" {
		c.Generation.Model = fc.Generation.Model
	}
	if fc.Generation.Temperature != 0 {
		c.Generation.Temperature = fc.Generation.Temperature
	}
	if fc.Generation.TopP != 0 {
		c.Generation.TopP = fc.Generation.TopP
	}
	if fc.Generation.TopK != 0 {
		c.Generation.TopK = fc.Generation.TopK
	}
	if fc.Generation.MaxTokens != 0 {
		c.Generation.MaxTokens = fc.Generation.MaxTokens
	}
	return nil
}
