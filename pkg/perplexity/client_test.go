package perplexity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`

func newTestServer(t *testing.T, h http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL))
}

func TestChatCompletion(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantErr    string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"choices": [{"message": {"role": "assistant", "content": "Hello!"}}],
				"citations": ["https://example.com/a"]
			}`,
		},
		{name: "rate limit", status: http.StatusTooManyRequests, body: `{"error":"rate limit exceeded"}`, wantStatus: 429},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"invalid api key"}`, wantStatus: 403},
		{name: "malformed response", status: http.StatusOK, body: `{invalid json`, wantErr: "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
				Messages: []Message{{Role: "user", Content: "Hi"}},
			})

			switch {
			case tt.wantStatus != 0:
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.wantStatus, apiErr.HTTPStatus())
				assert.Contains(t, err.Error(), tt.body)
				assert.Nil(t, resp)
			case tt.wantErr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Hello!", resp.Text())
				assert.Equal(t, []string{"https://example.com/a"}, resp.Citations)
			}
		})
	}
}

func TestChatCompletion_Model(t *testing.T) {
	for _, tt := range []struct{ model, expect string }{
		{"", defaultModel},
		{"sonar-reasoning", "sonar-reasoning"},
	} {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			var req ChatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, tt.expect, req.Model)
			_, _ = w.Write([]byte(okBody))
		})
		_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{Model: tt.model})
		require.NoError(t, err)
	}
}

func TestChatCompletion_RequestBody(t *testing.T) {
	t.Run("unset fields omitted", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var raw map[string]any
			require.NoError(t, json.Unmarshal(body, &raw))
			assert.NotContains(t, raw, "temperature")
			assert.NotContains(t, raw, "search_recency_filter")
			_, _ = w.Write([]byte(okBody))
		})
		_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
			Messages: []Message{{Role: "user", Content: "test"}},
		})
		require.NoError(t, err)
	})

	t.Run("recency and temperature sent", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			var req ChatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "month", req.SearchRecencyFilter)
			require.NotNil(t, req.Temperature)
			assert.InDelta(t, 0.2, *req.Temperature, 0.001)
			_, _ = w.Write([]byte(okBody))
		})
		temp := 0.2
		_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
			Temperature:         &temp,
			SearchRecencyFilter: "month",
		})
		require.NoError(t, err)
	})
}

func TestChatCompletion_ErrorBodyTruncated(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	})

	_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Len(t, apiErr.Body, maxErrorBody)
}

func TestChatCompletion_Canceled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(okBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ChatCompletion(ctx, ChatCompletionRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_Defaults(t *testing.T) {
	hc := NewClient("my-key").(*httpClient)
	assert.Equal(t, "my-key", hc.apiKey)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.Equal(t, backstopTimeout, hc.http.Timeout)
}

func TestResponseText_Empty(t *testing.T) {
	var nilResp *ChatCompletionResponse
	assert.Equal(t, "", nilResp.Text())
	assert.Equal(t, "", (&ChatCompletionResponse{}).Text())
}
