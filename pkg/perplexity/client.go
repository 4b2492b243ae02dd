// Package perplexity talks to the Perplexity chat completions API. Sonar
// models search the web while answering, so a single completion is a whole
// research run.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar-pro"
	maxErrorBody   = 512

	// A research answer can take minutes; callers bound it with ctx.
	backstopTimeout = 10 * time.Minute
)

// Client asks Perplexity for one completion.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ChatCompletionRequest carries the fields a research prompt sets.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	// SearchRecencyFilter is "day", "week", "month" or "year".
	SearchRecencyFilter string `json:"search_recency_filter,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse keeps the answer and the sources the model searched.
type ChatCompletionResponse struct {
	Choices   []Choice `json:"choices"`
	Citations []string `json:"citations,omitempty"`
}

type Choice struct {
	Message Message `json:"message"`
}

// Text returns the first answer, or "".
func (r *ChatCompletionResponse) Text() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// APIError is a non-200 reply. Body is cut to 512 bytes.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("perplexity: status %d: %s", e.Status, e.Body)
}

// HTTPStatus lets retry logic classify the failure.
func (e *APIError) HTTPStatus() int { return e.Status }

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(url string) Option {
	return func(c *httpClient) { c.baseURL = url }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient returns a client for apiKey. Requests without a model use sonar-pro.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: backstopTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = defaultModel
	}
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "perplexity: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var out ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, eris.Wrap(err, "perplexity: decode response")
	}
	return &out, nil
}

func (c *httpClient) newRequest(ctx context.Context, req ChatCompletionRequest) (*http.Request, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "perplexity: encode request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "perplexity: build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	return httpReq, nil
}
