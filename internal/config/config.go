package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvironmentProduction = "production"

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogFile     string `envconfig:"LOG_FILE"`

	// Credentials are not required at startup. Their absence is reported per
	// request as a configuration error.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"0"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`

	ElevenLabsAPIKey  string `envconfig:"ELEVENLABS_API_KEY"`
	ElevenLabsAgentID string `envconfig:"ELEVENLABS_AGENT_ID"`
	ElevenLabsBaseURL string `envconfig:"ELEVENLABS_BASE_URL" default:"https://api.elevenlabs.io/v1"`

	// AdminAPIKey guards the catalog and knowledge mutations when set.
	AdminAPIKey string `envconfig:"ADMIN_API_KEY"`

	CacheTTL           time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	CacheSweepInterval time.Duration `envconfig:"CACHE_SWEEP_INTERVAL" default:"10m"`

	ChatRateLimit float64 `envconfig:"CHAT_RATE_LIMIT" default:"1"`
	ChatRateBurst int     `envconfig:"CHAT_RATE_BURST" default:"5"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For and friends.
	// Only enable behind a proxy that overwrites them.
	TrustProxyHeaders bool `envconfig:"TRUST_PROXY_HEADERS" default:"false"`

	DegradeOnEmptyKnowledge bool `envconfig:"DEGRADE_ON_EMPTY_KNOWLEDGE" default:"false"`

	AssistantSessionTTL time.Duration `envconfig:"ASSISTANT_SESSION_TTL" default:"24h"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("CACILDA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.CacheSweepInterval <= 0 {
		return nil, fmt.Errorf("CACILDA_CACHE_SWEEP_INTERVAL must be positive, got %s", cfg.CacheSweepInterval)
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasElevenLabs() bool {
	return c.ElevenLabsAPIKey != ""
}

func (c *Config) HasAdminKey() bool {
	return c.AdminAPIKey != ""
}

// CheckEnv reports which credentials are present without revealing them.
func (c *Config) CheckEnv() map[string]string {
	status := func(ok bool) string {
		if ok {
			return "Set"
		}
		return "Not set"
	}
	return map[string]string{
		"CACILDA_DATABASE_URL":   status(c.HasDatabase()),
		"CACILDA_OPENAI_API_KEY": status(c.HasOpenAI()),
	}
}

// EnvironmentReady is true when every credential in CheckEnv is set.
func (c *Config) EnvironmentReady() bool {
	for _, v := range c.CheckEnv() {
		if v != "Set" {
			return false
		}
	}
	return true
}
