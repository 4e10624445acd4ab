package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/formsmith/formsmith-backend/internal/config"
	"github.com/formsmith/formsmith-backend/internal/logger"
)

const defaultCohereModel = "command-xlarge-nightly"

// cohereClient talks to the Cohere chat API: one message in, one text out.
type cohereClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewCohereClient(cfg *config.Config, log *logger.Logger) (TextProvider, error) {
	if cfg.CohereAPIKey == "" {
		return nil, fmt.Errorf("%w: COHERE_API_KEY", ErrProviderMissingCredential)
	}
	model := cfg.Generation.Model
	if model == "" {
		model = defaultCohereModel
	}
	return &cohereClient{
		log:        log.With("service", "CohereClient"),
		baseURL:    cfg.CohereBaseURL,
		apiKey:     cfg.CohereAPIKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(cfg.ProviderTimeoutSeconds) * time.Second},
	}, nil
}

func (c *cohereClient) Name() string  { return config.ProviderCohere }
func (c *cohereClient) Model() string { return c.model }

type cohereChatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature,omitempty"`
	P           float64 `json:"p,omitempty"`
	K           int     `json:"k,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type cohereChatResponse struct {
	Text string `json:"text"`
}

func (c *cohereClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	req := cohereChatRequest{
		Model:       c.model,
		Message:     prompt,
		Temperature: opts.Temperature,
		P:           opts.TopP,
		K:           opts.TopK,
		MaxTokens:   opts.MaxTokens,
	}

	raw, err := doProviderRequest(ctx, c.httpClient, config.ProviderCohere, "POST", c.baseURL+"/v1/chat", map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, req)
	if err != nil {
		return "", classifyProviderError(err)
	}

	var resp cohereChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: cohere decode error: %v", ErrProviderUpstream, err)
	}
	if resp.Text == "" {
		return "", fmt.Errorf("%w: cohere returned an empty response", ErrProviderUpstream)
	}
	return resp.Text, nil
}
