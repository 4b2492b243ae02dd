package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agent-research/internal/agent"
	"github.com/sells-group/agent-research/internal/config"
)

func TestConfiguredProviders(t *testing.T) {
	c := &config.Config{
		Azure:      config.AzureConfig{Endpoint: "https://example.openai.azure.com", Deployment: "gpt-4o"},
		Perplexity: config.PerplexityConfig{Key: "pk"},
	}
	assert.Equal(t, []string{config.ProviderAzure, config.ProviderPerplexity}, configuredProviders(c))
	assert.Empty(t, configuredProviders(&config.Config{}))
}

func TestPingAll_KeepsOrder(t *testing.T) {
	results := pingAll(context.Background(), config.Providers, func(_ context.Context, p string) agent.PingResult {
		return agent.PingResult{Provider: p, OK: p != config.ProviderAnthropic, Stage: agent.StageDone}
	})
	require.Len(t, results, len(config.Providers))
	for i, p := range config.Providers {
		assert.Equal(t, p, results[i].Provider)
	}
	assert.False(t, results[2].OK)
}

func TestPrintPingResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printPingResults(&buf, []agent.PingResult{
		{Provider: "azure", OK: true, Stage: agent.StageDone, Reply: "ok"},
		{Provider: "anthropic", Stage: agent.StageConfig, Detail: "agent: provider not configured"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "PROVIDER"))
	assert.Contains(t, lines[1], "azure")
	assert.Contains(t, lines[1], "done")
	assert.Contains(t, lines[2], "provider not configured")
}
