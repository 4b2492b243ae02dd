package agent

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agent-research/pkg/anthropic"
	"github.com/sells-group/agent-research/pkg/azureopenai"
	"github.com/sells-group/agent-research/pkg/perplexity"
)

// Chat sends prompts to an Azure OpenAI deployment or an OpenAI model.
type Chat struct {
	name        string
	client      azureopenai.Client
	model       string
	system      string
	temperature float64
	maxTokens   int64
}

// NewChat wraps an azureopenai client. On Azure, model is the deployment.
func NewChat(name string, client azureopenai.Client, model, system string, temperature float64, maxTokens int64) *Chat {
	return &Chat{name: name, client: client, model: model, system: system, temperature: temperature, maxTokens: maxTokens}
}

func (c *Chat) Name() string { return c.name }

func (c *Chat) Ask(ctx context.Context, prompt string) (string, error) {
	temp := c.temperature
	resp, err := c.client.ChatCompletion(ctx, azureopenai.ChatRequest{
		Model:       c.model,
		System:      c.system,
		User:        prompt,
		Temperature: &temp,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", eris.Wrapf(err, "agent: %s ask", c.name)
	}
	return nonEmpty(c.name, resp.Content)
}

// Claude sends prompts to the Anthropic Messages API.
type Claude struct {
	client      anthropic.Client
	model       string
	system      string
	temperature float64
	maxTokens   int64
}

// NewClaude wraps an anthropic client.
func NewClaude(client anthropic.Client, model, system string, temperature float64, maxTokens int64) *Claude {
	return &Claude{client: client, model: model, system: system, temperature: temperature, maxTokens: maxTokens}
}

func (c *Claude) Name() string { return "anthropic" }

func (c *Claude) Ask(ctx context.Context, prompt string) (string, error) {
	temp := c.temperature
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		System:      c.system,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "agent: anthropic ask")
	}
	return nonEmpty(c.Name(), resp.Text())
}

// Sonar sends prompts to Perplexity, whose models search the web themselves.
type Sonar struct {
	client      perplexity.Client
	model       string
	system      string
	temperature float64
	recency     string
}

// NewSonar wraps a perplexity client. recency may be empty.
func NewSonar(client perplexity.Client, model, system string, temperature float64, recency string) *Sonar {
	return &Sonar{client: client, model: model, system: system, temperature: temperature, recency: recency}
}

func (s *Sonar) Name() string { return "perplexity" }

func (s *Sonar) Ask(ctx context.Context, prompt string) (string, error) {
	msgs := []perplexity.Message{{Role: "user", Content: prompt}}
	if s.system != "" {
		msgs = append([]perplexity.Message{{Role: "system", Content: s.system}}, msgs...)
	}
	temp := s.temperature
	resp, err := s.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model:               s.model,
		Messages:            msgs,
		Temperature:         &temp,
		SearchRecencyFilter: s.recency,
	})
	if err != nil {
		return "", eris.Wrap(err, "agent: perplexity ask")
	}
	zap.L().Debug("agent: perplexity sources", zap.Strings("citations", resp.Citations))
	return nonEmpty(s.Name(), resp.Text())
}
