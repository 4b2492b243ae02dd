package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported agent providers.
const (
	ProviderAzure      = "azure"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderPerplexity = "perplexity"
)

// Providers lists every provider in the order connectivity checks report them.
var Providers = []string{ProviderAzure, ProviderOpenAI, ProviderAnthropic, ProviderPerplexity}

// Config holds the full application configuration.
type Config struct {
	Agent      AgentConfig      `yaml:"agent" mapstructure:"agent"`
	Azure      AzureConfig      `yaml:"azure" mapstructure:"azure"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AgentConfig selects the provider and the call policy around it.
type AgentConfig struct {
	Provider            string  `yaml:"provider" mapstructure:"provider"`
	SystemPrompt        string  `yaml:"system_prompt" mapstructure:"system_prompt"`
	Temperature         float64 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutSecs         int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts         int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RequestsPerMinute   int     `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	CircuitThreshold    int     `yaml:"circuit_threshold" mapstructure:"circuit_threshold"`
	CircuitCooldownSecs int     `yaml:"circuit_cooldown_secs" mapstructure:"circuit_cooldown_secs"`
}

// AzureConfig locates an Azure OpenAI deployment. Without an API key the
// client authenticates through Entra ID.
type AzureConfig struct {
	Endpoint     string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	APIVersion   string `yaml:"api_version" mapstructure:"api_version"`
	Deployment   string `yaml:"deployment" mapstructure:"deployment"`
	TenantID     string `yaml:"tenant_id" mapstructure:"tenant_id"`
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	MaxTokens    int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	Model         string `yaml:"model" mapstructure:"model"`
	RecencyFilter string `yaml:"recency_filter" mapstructure:"recency_filter"`
}

// ServerConfig configures the web shell.
type ServerConfig struct {
	Port            int `yaml:"port" mapstructure:"port"`
	ReadTimeoutSecs int `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	// WriteTimeoutSecs is a floor; serve raises it to the agent retry budget.
	WriteTimeoutSecs int      `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RESEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("agent.provider", ProviderAzure)
	v.SetDefault("agent.system_prompt", "あなたは企業・業界調査の専門アナリストです。Web検索で裏付けを取り、指定されたJSON構造のみで回答してください。")
	v.SetDefault("agent.temperature", 0.2)
	v.SetDefault("agent.timeout_secs", 180)
	v.SetDefault("agent.max_attempts", 3)
	v.SetDefault("agent.requests_per_minute", 10)
	v.SetDefault("agent.circuit_threshold", 5)
	v.SetDefault("agent.circuit_cooldown_secs", 60)
	v.SetDefault("azure.endpoint", "")
	v.SetDefault("azure.api_key", "")
	v.SetDefault("azure.api_version", "2024-06-01")
	v.SetDefault("azure.deployment", "gpt-4o")
	v.SetDefault("azure.tenant_id", "")
	v.SetDefault("azure.client_id", "")
	v.SetDefault("azure.client_secret", "")
	v.SetDefault("azure.max_tokens", 4096)
	v.SetDefault("openai.key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.max_tokens", 4096)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("perplexity.key", "")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("perplexity.recency_filter", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("server.write_timeout_secs", 300)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// The Azure SDKs' own variable names are honored too.
	for key, env := range map[string]string{
		"azure.endpoint":      "AZURE_OPENAI_ENDPOINT",
		"azure.api_key":       "AZURE_OPENAI_API_KEY",
		"azure.tenant_id":     "AZURE_TENANT_ID",
		"azure.client_id":     "AZURE_CLIENT_ID",
		"azure.client_secret": "AZURE_CLIENT_SECRET",
	} {
		if err := v.BindEnv(key, "RESEARCH_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", key)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Configured reports whether provider has the settings it needs to be called.
func (c *Config) Configured(provider string) bool {
	switch provider {
	case ProviderAzure:
		return c.Azure.Endpoint != "" && c.Azure.Deployment != ""
	case ProviderOpenAI:
		return c.OpenAI.Key != ""
	case ProviderAnthropic:
		return c.Anthropic.Key != ""
	case ProviderPerplexity:
		return c.Perplexity.Key != ""
	}
	return false
}

// Validate checks the settings a command mode needs: "research" needs the
// selected provider, "serve" also needs a valid port.
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "research", "serve":
		missing = append(missing, c.providerProblems()...)
		if mode == "serve" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
			missing = append(missing, "server.port must be between 1 and 65535")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if c.Agent.TimeoutSecs <= 0 {
		missing = append(missing, "agent.timeout_secs must be positive")
	}

	if len(missing) > 0 {
		return eris.Errorf("config: %s", strings.Join(missing, "; "))
	}
	return nil
}

func (c *Config) providerProblems() []string {
	switch c.Agent.Provider {
	case ProviderAzure:
		var out []string
		if c.Azure.Endpoint == "" {
			out = append(out, "azure.endpoint is required")
		}
		if c.Azure.Deployment == "" {
			out = append(out, "azure.deployment is required")
		}
		return out
	case ProviderOpenAI:
		if c.OpenAI.Key == "" {
			return []string{"openai.key is required"}
		}
	case ProviderAnthropic:
		if c.Anthropic.Key == "" {
			return []string{"anthropic.key is required"}
		}
	case ProviderPerplexity:
		if c.Perplexity.Key == "" {
			return []string{"perplexity.key is required"}
		}
	default:
		return []string{"agent.provider must be one of " + strings.Join(Providers, ", ")}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
