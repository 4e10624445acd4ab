package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/formsmith/formsmith-backend/internal/config"
	"github.com/formsmith/formsmith-backend/internal/logger"
)

const defaultGeminiModel = "gemini-pro"

// geminiClient talks to the Generative Language generateContent endpoint.
// The API key travels as a query parameter, not a header.
type geminiClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(cfg *config.Config, log *logger.Logger) (TextProvider, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY", ErrProviderMissingCredential)
	}
	model := cfg.Generation.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiClient{
		log:        log.With("service", "GeminiClient"),
		baseURL:    strings.TrimRight(cfg.GeminiBaseURL, "/"),
		apiKey:     cfg.GeminiAPIKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(cfg.ProviderTimeoutSeconds) * time.Second},
	}, nil
}

func (c *geminiClient) Name() string  { return config.ProviderGemini }
func (c *geminiClient) Model() string { return c.model }

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiGenerateRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *geminiClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	req := geminiGenerateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     opts.Temperature,
			TopP:            opts.TopP,
			TopK:            opts.TopK,
			MaxOutputTokens: opts.MaxTokens,
		},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	raw, err := doProviderRequest(ctx, c.httpClient, config.ProviderGemini, "POST", url, nil, req)
	if err != nil {
		return "", classifyProviderError(err)
	}

	var resp geminiGenerateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: gemini decode error: %v", ErrProviderUpstream, err)
	}

	var text strings.Builder
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrProviderUpstream)
	}
	return text.String(), nil
}
