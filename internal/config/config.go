package config

import (
	"fmt"
	"time"

	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "FEEDBACK"

type Config struct {
	Port  string `envconfig:"PORT" default:"8082"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"0"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"0"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	Web WebConfig `ignored:"true"`
}

// WebConfig drives the HTML views. feedbackd web only needs this half, so it
// is loaded on its own by LoadWeb.
type WebConfig struct {
	Port          string        `envconfig:"PORT" default:"8082"`
	APIBaseURL    string        `envconfig:"API_BASE_URL" default:"http://localhost:8082/api/v1"`
	ClientTimeout time.Duration `envconfig:"CLIENT_TIMEOUT" default:"30s"`
	SentryDSN     string        `envconfig:"SENTRY_DSN"`
	Environment   string        `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := envconfig.Process(envPrefix, &cfg.Web); err != nil {
		return nil, fmt.Errorf("failed to process web config: %w", err)
	}

	return &cfg, nil
}

func LoadWeb() (*WebConfig, error) {
	_ = godotenv.Load()

	var cfg WebConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process web config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		logger.GetLogger().Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// IsProduction reports whether the daemon runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
