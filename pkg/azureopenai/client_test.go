package azureopenai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "調査結果"}}],
  "usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
}`

func TestOpenAI_ChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/chat/completions")
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body["model"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
		assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
		assert.InDelta(t, 0.2, body["temperature"], 0.001)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	temp := 0.2
	client := NewOpenAI("test-key", srv.URL)
	resp, err := client.ChatCompletion(context.Background(), ChatRequest{
		Model:       "gpt-4o",
		System:      "analyst",
		User:        "調査してください",
		Temperature: &temp,
		MaxTokens:   512,
	})
	require.NoError(t, err)
	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, "調査結果", resp.Content)
	assert.Equal(t, int64(12), resp.Usage.PromptTokens)
}

func TestOpenAI_NoSystemMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body["messages"], 1)
		assert.NotContains(t, body, "max_tokens")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	_, err := NewOpenAI("k", srv.URL).ChatCompletion(context.Background(), ChatRequest{Model: "gpt-4o", User: "hi"})
	require.NoError(t, err)
}

func TestOpenAI_ErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI("k", srv.URL).ChatCompletion(context.Background(), ChatRequest{Model: "gpt-4o", User: "hi"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.HTTPStatus())
}

func TestAzure_DeploymentRouting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/deployments/research-gpt4o/chat/completions")
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("api-version"))
		assert.Equal(t, "azure-key", r.Header.Get("Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	client, err := NewAzure(AzureConfig{Endpoint: srv.URL, APIKey: "azure-key"})
	require.NoError(t, err)

	resp, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "research-gpt4o", User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "調査結果", resp.Content)
}

func TestNewAzure_RequiresEndpoint(t *testing.T) {
	_, err := NewAzure(AzureConfig{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint is required")
}

func TestCredential_ServicePrincipal(t *testing.T) {
	cred, err := Credential(AzureConfig{
		TenantID:     "00000000-0000-0000-0000-000000000000",
		ClientID:     "11111111-1111-1111-1111-111111111111",
		ClientSecret: "secret",
	})
	require.NoError(t, err)
	assert.NotNil(t, cred)
}
