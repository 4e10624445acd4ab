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

const defaultHuggingFaceModel = "gpt2"

// huggingFaceClient talks to the Inference API, a raw text-completion shape:
// a single inputs string with generation parameters, returning generated_text
// either as a bare object or a one-element array depending on the model.
type huggingFaceClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewHuggingFaceClient(cfg *config.Config, log *logger.Logger) (TextProvider, error) {
	if cfg.HuggingFaceAPIKey == "" {
		return nil, fmt.Errorf("%w: HUGGINGFACE_API_KEY", ErrProviderMissingCredential)
	}
	model := cfg.Generation.Model
	if model == "" {
		model = defaultHuggingFaceModel
	}
	return &huggingFaceClient{
		log:        log.With("service", "HuggingFaceClient"),
		baseURL:    strings.TrimRight(cfg.HuggingFaceBaseURL, "/"),
		apiKey:     cfg.HuggingFaceAPIKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(cfg.ProviderTimeoutSeconds) * time.Second},
	}, nil
}

func (c *huggingFaceClient) Name() string  { return config.ProviderHuggingFace }
func (c *huggingFaceClient) Model() string { return c.model }

type huggingFaceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	TopP           float64 `json:"top_p,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceGeneration struct {
	GeneratedText string `json:"generated_text"`
}

func (c *huggingFaceClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	req := huggingFaceRequest{
		Inputs: prompt,
		Parameters: huggingFaceParameters{
			MaxNewTokens:   opts.MaxTokens,
			Temperature:    opts.Temperature,
			TopP:           opts.TopP,
			ReturnFullText: false,
		},
	}

	url := c.baseURL + "/models/" + c.model
	raw, err := doProviderRequest(ctx, c.httpClient, config.ProviderHuggingFace, "POST", url, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, req)
	if err != nil {
		return "", classifyProviderError(err)
	}

	// Some models answer [{generated_text}], others {generated_text}.
	var list []huggingFaceGeneration
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		if list[0].GeneratedText == "" {
			return "", fmt.Errorf("%w: huggingface returned an empty generation", ErrProviderUpstream)
		}
		return list[0].GeneratedText, nil
	}
	var single huggingFaceGeneration
	if err := json.Unmarshal(raw, &single); err == nil && single.GeneratedText != "" {
		return single.GeneratedText, nil
	}
	return "", fmt.Errorf("%w: huggingface response had no generated_text", ErrProviderUpstream)
}
