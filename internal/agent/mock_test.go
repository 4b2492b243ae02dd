package agent

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/agent-research/pkg/anthropic"
	"github.com/sells-group/agent-research/pkg/azureopenai"
	"github.com/sells-group/agent-research/pkg/perplexity"
)

type mockAgent struct {
	mock.Mock
}

func (m *mockAgent) Name() string { return "mock" }

func (m *mockAgent) Ask(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type mockChatClient struct {
	mock.Mock
}

func (m *mockChatClient) ChatCompletion(ctx context.Context, req azureopenai.ChatRequest) (*azureopenai.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*azureopenai.ChatResponse), args.Error(1)
}

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

type mockPerplexityClient struct {
	mock.Mock
}

func (m *mockPerplexityClient) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*perplexity.ChatCompletionResponse), args.Error(1)
}
