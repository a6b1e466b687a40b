package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pageza/khana/backend/config"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

// CompletionSettings are the generation parameters sent with every prompt
type CompletionSettings struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

// SettingsFromConfig extracts the completion settings from cfg
func SettingsFromConfig(cfg *config.Config) CompletionSettings {
	return CompletionSettings{
		APIKey:      cfg.AIAPIKey,
		BaseURL:     cfg.AIBaseURL,
		Model:       cfg.AIModel,
		MaxTokens:   cfg.AIMaxTokens,
		Temperature: cfg.AITemperature,
		TopP:        cfg.AITopP,
		Timeout:     cfg.AITimeout,
	}
}

// NewCompletionProvider returns the provider named by cfg.AIProvider
func NewCompletionProvider(cfg *config.Config) (CompletionProvider, error) {
	settings := SettingsFromConfig(cfg)
	switch cfg.AIProvider {
	case "", "together":
		return NewTogetherProvider(settings), nil
	case "openai":
		return NewOpenAIProvider(settings), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.AIProvider)
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type togetherRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type togetherResponse struct {
	Output *struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	} `json:"output"`
}

// TogetherProvider calls the Together inference endpoint
type TogetherProvider struct {
	settings CompletionSettings
	client   *http.Client
}

// NewTogetherProvider creates a new TogetherProvider instance
func NewTogetherProvider(settings CompletionSettings) *TogetherProvider {
	return &TogetherProvider{
		settings: settings,
		client:   newHTTPClient(settings.Timeout),
	}
}

// Complete posts the prompt to {base}/inference. A non-2xx reply is returned as
// an upstream error carrying the status and body.
func (p *TogetherProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := togetherRequest{
		Model:       p.settings.Model,
		Prompt:      prompt,
		MaxTokens:   p.settings.MaxTokens,
		Temperature: p.settings.Temperature,
		TopP:        p.settings.TopP,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(p.settings.BaseURL, "/") + "/inference"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.settings.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewUpstreamError(resp.StatusCode, string(body))
	}

	var result togetherResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Output == nil || len(result.Output.Choices) == 0 {
		return "", nil
	}
	return result.Output.Choices[0].Text, nil
}

// OpenAIProvider calls an OpenAI-compatible completions endpoint
type OpenAIProvider struct {
	settings CompletionSettings
	client   *openai.Client
}

// NewOpenAIProvider creates a new OpenAIProvider instance. The base URL gets a
// /v1 suffix when it has none.
func NewOpenAIProvider(settings CompletionSettings) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(settings.APIKey)
	if settings.BaseURL != "" {
		base := strings.TrimRight(settings.BaseURL, "/")
		if !strings.HasSuffix(base, "/v1") {
			base += "/v1"
		}
		clientConfig.BaseURL = base
	}
	clientConfig.HTTPClient = newHTTPClient(settings.Timeout)

	return &OpenAIProvider{
		settings: settings,
		client:   openai.NewClientWithConfig(clientConfig),
	}
}

// Complete sends the prompt as a legacy completion request
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       p.settings.Model,
		Prompt:      prompt,
		MaxTokens:   p.settings.MaxTokens,
		Temperature: float32(p.settings.Temperature),
		TopP:        float32(p.settings.TopP),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return "", apperrors.NewUpstreamError(apiErr.HTTPStatusCode, apiErr.Message).WithCause(err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
			return "", apperrors.NewUpstreamError(reqErr.HTTPStatusCode, reqErr.Error()).WithCause(err)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Text, nil
}
