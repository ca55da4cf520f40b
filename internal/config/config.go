package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains all runtime settings for the proxy.
type Config struct {
	Port             int           `env:"PORT" envDefault:"8000"`
	MLServiceURL     string        `env:"ML_SERVICE_URL"`
	MLServiceAPIKey  string        `env:"ML_SERVICE_API_KEY"`
	MLServiceTimeout time.Duration `env:"ML_SERVICE_TIMEOUT" envDefault:"30s"`
	RedisURL         string        `env:"REDIS_URL"`
	ChatHistoryTTL   time.Duration `env:"CHAT_HISTORY_TTL" envDefault:"24h"`
	AllowedOrigins   []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	MetricsNamespace string        `env:"METRICS_NAMESPACE" envDefault:"ragproxy"`
}

// Load parses environment variables and applies defaults.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.MLServiceURL = strings.TrimRight(strings.TrimSpace(cfg.MLServiceURL), "/")
	cfg.MLServiceAPIKey = strings.TrimSpace(cfg.MLServiceAPIKey)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT must be in 1..65535, got %d", cfg.Port)
	}
	if cfg.MLServiceTimeout <= 0 {
		return Config{}, fmt.Errorf("ML_SERVICE_TIMEOUT must be positive")
	}
	if cfg.ChatHistoryTTL <= 0 {
		return Config{}, fmt.Errorf("CHAT_HISTORY_TTL must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	return cfg, nil
}

// BindAddr returns the listen address derived from Port.
func (c Config) BindAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Warnings reports non-fatal configuration gaps. The service still starts
// without backend credentials; every /chat call will fail until they are set.
func (c Config) Warnings() []string {
	var w []string
	if c.MLServiceURL == "" {
		w = append(w, "ML_SERVICE_URL is not set; /chat will fail until configured")
	}
	if c.MLServiceAPIKey == "" {
		w = append(w, "ML_SERVICE_API_KEY is not set; backend calls will be unauthenticated")
	}
	if c.RedisURL == "" {
		w = append(w, "REDIS_URL is not set; falling back to in-memory chat history")
	}
	return w
}
