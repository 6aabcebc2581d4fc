package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the proxy service.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"haloclaude-proxy"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"4000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	AnthropicAPIKey  string        `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string        `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	AnthropicModel   string        `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-5-20250929"`
	AnthropicTimeout time.Duration `env:"ANTHROPIC_TIMEOUT" envDefault:"75s"`

	HaloAPIURL       string        `env:"HALO_API_URL"`
	HaloClientID     string        `env:"HALO_CLIENT_ID"`
	HaloClientSecret string        `env:"HALO_CLIENT_SECRET"`
	HaloTimeout      time.Duration `env:"HALO_TIMEOUT" envDefault:"15s"`

	ProxyMasterKey string `env:"PROXY_MASTER_KEY"`

	ContextInjectionEnabled bool          `env:"CONTEXT_INJECTION_ENABLED" envDefault:"true"`
	ContextCacheTTL         time.Duration `env:"CONTEXT_CACHE_TTL" envDefault:"5m"`
	ContextCacheMaxEntries  int           `env:"CONTEXT_CACHE_MAX_ENTRIES" envDefault:"256"`
	ContextFetchTimeout     time.Duration `env:"CONTEXT_FETCH_TIMEOUT" envDefault:"15s"`

	MaxToolRounds int           `env:"MAX_TOOL_ROUNDS" envDefault:"8"`
	LoopTimeout   time.Duration `env:"LOOP_TIMEOUT" envDefault:"120s"`

	// DeploymentModelMap maps Azure deployment names to Anthropic model ids,
	// formatted as comma separated "deployment=model" pairs. Deployments not
	// listed here are rejected.
	DeploymentModelMap string `env:"DEPLOYMENT_MODEL_MAP" envDefault:""`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.AnthropicAPIKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if strings.TrimSpace(cfg.HaloAPIURL) == "" {
		return nil, fmt.Errorf("HALO_API_URL is required")
	}
	if strings.TrimSpace(cfg.HaloClientID) == "" || strings.TrimSpace(cfg.HaloClientSecret) == "" {
		return nil, fmt.Errorf("HALO_CLIENT_ID and HALO_CLIENT_SECRET are required")
	}
	if strings.TrimSpace(cfg.ProxyMasterKey) == "" {
		return nil, fmt.Errorf("PROXY_MASTER_KEY is required")
	}

	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 8
	}
	if cfg.ContextCacheTTL <= 0 {
		cfg.ContextCacheTTL = 5 * time.Minute
	}
	if cfg.LoopTimeout <= 0 {
		cfg.LoopTimeout = 120 * time.Second
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// DeploymentMappings parses DEPLOYMENT_MODEL_MAP into a lookup table. When the
// variable is empty, the common Halo deployment names all resolve to the
// configured Anthropic model.
func (c *Config) DeploymentMappings() map[string]string {
	mappings := make(map[string]string)
	if strings.TrimSpace(c.DeploymentModelMap) == "" {
		for _, name := range []string{"claude", "gpt-4", "gpt-4o", "gpt-4.1"} {
			mappings[name] = c.AnthropicModel
		}
		return mappings
	}

	for _, pair := range strings.Split(c.DeploymentModelMap, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		deployment := strings.TrimSpace(parts[0])
		model := strings.TrimSpace(parts[1])
		if deployment == "" || model == "" {
			continue
		}
		mappings[deployment] = model
	}
	return mappings
}
