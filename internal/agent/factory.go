package agent

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agent-research/internal/config"
	"github.com/sells-group/agent-research/internal/resilience"
	"github.com/sells-group/agent-research/pkg/anthropic"
	"github.com/sells-group/agent-research/pkg/azureopenai"
	"github.com/sells-group/agent-research/pkg/perplexity"
)

// New builds the named provider from cfg and guards it with the agent policy.
// An empty provider selects cfg.Agent.Provider.
func New(cfg *config.Config, provider string) (Agent, error) {
	a, err := newProvider(cfg, provider)
	if err != nil {
		return nil, err
	}
	return Guard(a, PolicyFrom(cfg.Agent)), nil
}

// PolicyFrom maps the agent configuration onto a call policy.
func PolicyFrom(c config.AgentConfig) Policy {
	b := resilience.DefaultBackoff()
	if c.MaxAttempts > 0 {
		b.Attempts = c.MaxAttempts
	}
	return Policy{
		Timeout:           time.Duration(c.TimeoutSecs) * time.Second,
		Backoff:           b,
		RequestsPerMinute: c.RequestsPerMinute,
		CircuitThreshold:  c.CircuitThreshold,
		CircuitCooldown:   time.Duration(c.CircuitCooldownSecs) * time.Second,
	}
}

func newProvider(cfg *config.Config, provider string) (Agent, error) {
	if provider == "" {
		provider = cfg.Agent.Provider
	}
	if !cfg.Configured(provider) {
		return nil, eris.Wrap(ErrNotConfigured, provider)
	}

	ac := cfg.Agent
	switch provider {
	case config.ProviderAzure:
		client, err := azureopenai.NewAzure(azureopenai.AzureConfig{
			Endpoint:     cfg.Azure.Endpoint,
			APIVersion:   cfg.Azure.APIVersion,
			APIKey:       cfg.Azure.APIKey,
			TenantID:     cfg.Azure.TenantID,
			ClientID:     cfg.Azure.ClientID,
			ClientSecret: cfg.Azure.ClientSecret,
		})
		if err != nil {
			return nil, eris.Wrap(err, "agent: azure client")
		}
		return NewChat(provider, client, cfg.Azure.Deployment, ac.SystemPrompt, ac.Temperature, cfg.Azure.MaxTokens), nil
	case config.ProviderOpenAI:
		client := azureopenai.NewOpenAI(cfg.OpenAI.Key, cfg.OpenAI.BaseURL)
		return NewChat(provider, client, cfg.OpenAI.Model, ac.SystemPrompt, ac.Temperature, cfg.OpenAI.MaxTokens), nil
	case config.ProviderAnthropic:
		var opts []anthropic.Option
		if cfg.Anthropic.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.Anthropic.BaseURL))
		}
		client := anthropic.NewClient(cfg.Anthropic.Key, opts...)
		return NewClaude(client, cfg.Anthropic.Model, ac.SystemPrompt, ac.Temperature, cfg.Anthropic.MaxTokens), nil
	case config.ProviderPerplexity:
		var opts []perplexity.Option
		if cfg.Perplexity.BaseURL != "" {
			opts = append(opts, perplexity.WithBaseURL(cfg.Perplexity.BaseURL))
		}
		client := perplexity.NewClient(cfg.Perplexity.Key, opts...)
		return NewSonar(client, cfg.Perplexity.Model, ac.SystemPrompt, ac.Temperature, cfg.Perplexity.RecencyFilter), nil
	}
	return nil, eris.Errorf("agent: unknown provider %q", provider)
}
