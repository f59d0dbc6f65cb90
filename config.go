package langsync

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Default configuration values. DefaultRetries is a total attempt budget: 3
// means one attempt plus up to two retries.
const (
	DefaultBaseURL  = "https://api.langsync.xyz"
	DefaultTimeout  = 10 * time.Second
	DefaultRetries  = 3
	DefaultCacheTTL = 5 * time.Minute
)

// Config carries client configuration. Every field maps to a LANGSYNC_*
// environment variable for ConfigFromEnv.
type Config struct {
	APIKey    string        `env:"LANGSYNC_API_KEY"`
	ProjectID string        `env:"LANGSYNC_PROJECT_ID"`
	BaseURL   string        `env:"LANGSYNC_BASE_URL" envDefault:"https://api.langsync.xyz"`
	Timeout   time.Duration `env:"LANGSYNC_TIMEOUT" envDefault:"10s"`
	Retries   int           `env:"LANGSYNC_RETRIES" envDefault:"3"`
	CacheTTL  time.Duration `env:"LANGSYNC_CACHE_TTL" envDefault:"5m"`
}

// ConfigFromEnv reads configuration from the environment, applying defaults
// for everything but the credential and project.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
