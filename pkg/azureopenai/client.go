// Package azureopenai talks to chat models hosted on Azure OpenAI or on the
// public OpenAI API through the openai-go SDK.
package azureopenai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultAPIVersion = "2024-06-01"

// Client performs a single-turn chat completion.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest is a system plus user prompt pair. On Azure, Model is the
// deployment name.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature *float64
	MaxTokens   int64
}

// ChatResponse is the first choice of a completion.
type ChatResponse struct {
	ID      string
	Model   string
	Content string
	Usage   Usage
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// APIError is an error response from the service.
type APIError struct {
	Status int
	Err    error
}

func (e *APIError) Error() string { return e.Err.Error() }

func (e *APIError) Unwrap() error { return e.Err }

// HTTPStatus returns the response status.
func (e *APIError) HTTPStatus() int { return e.Status }

// AzureConfig locates an Azure OpenAI resource. APIKey wins over Entra ID
// credentials when both are set.
type AzureConfig struct {
	Endpoint     string
	APIVersion   string
	APIKey       string
	TenantID     string
	ClientID     string
	ClientSecret string
}

type sdkClient struct {
	client *openai.Client
}

// NewAzure creates a client for an Azure OpenAI resource. Without an API key
// the client authenticates with the credential chain from Credential.
func NewAzure(cfg AzureConfig, opts ...option.RequestOption) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, eris.New("azureopenai: endpoint is required")
	}
	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}

	base := []option.RequestOption{azure.WithEndpoint(cfg.Endpoint, version), option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		base = append(base, azure.WithAPIKey(cfg.APIKey))
	} else {
		cred, err := Credential(cfg)
		if err != nil {
			return nil, err
		}
		base = append(base, azure.WithTokenCredential(cred))
	}
	return &sdkClient{client: openai.NewClient(append(base, opts...)...)}, nil
}

// NewOpenAI creates a client for the OpenAI API or a compatible endpoint.
func NewOpenAI(apiKey, baseURL string, opts ...option.RequestOption) Client {
	base := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		base = append(base, option.WithBaseURL(baseURL))
	}
	return &sdkClient{client: openai.NewClient(append(base, opts...)...)}
}

func (c *sdkClient) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var msgs []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:    openai.F(req.Model),
		Messages: openai.F(msgs),
	}
	if req.Temperature != nil {
		params.Temperature = openai.F(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.F(req.MaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			err = &APIError{Status: apiErr.StatusCode, Err: err}
		}
		return nil, eris.Wrap(err, "azureopenai: chat completion")
	}

	out := &ChatResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
	}
	zap.L().Debug("azureopenai: completion",
		zap.String("model", out.Model),
		zap.Int64("prompt_tokens", out.Usage.PromptTokens),
		zap.Int64("completion_tokens", out.Usage.CompletionTokens),
	)
	return out, nil
}
