package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the CLI configuration. Environment variables set the defaults and flags override them.
type Config struct {
	Bucket    string `env:"GOINTL_BUCKET"`
	Region    string `env:"GOINTL_REGION"      envDefault:"us-east-1"`
	Endpoint  string `env:"GOINTL_ENDPOINT"`
	AccessKey string `env:"GOINTL_ACCESS_KEY"`
	SecretKey string `env:"GOINTL_SECRET_KEY"`
	PublicURL string `env:"GOINTL_PUBLIC_URL"`

	BasePrefix string `env:"GOINTL_BASE_PREFIX"`
	MirrorURL  string `env:"GOINTL_MIRROR_URL"`

	Cache     string        `env:"GOINTL_CACHE"      envDefault:"memory"`
	CacheTTL  time.Duration `env:"GOINTL_CACHE_TTL"  envDefault:"1h"`
	CacheSize int           `env:"GOINTL_CACHE_SIZE" envDefault:"512"`
	RedisURL  string        `env:"GOINTL_REDIS_URL"`

	Languages []string `env:"GOINTL_LANGUAGES" envSeparator:"," envDefault:"en"`
	Fallback  string   `env:"GOINTL_FALLBACK"`
	ShowKeys  bool     `env:"GOINTL_SHOW_KEYS" envDefault:"true"`

	Retries           int `env:"GOINTL_RETRIES"             envDefault:"3"`
	RequestsPerMinute int `env:"GOINTL_REQUESTS_PER_MINUTE"`

	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"GOINTL_OPENAI_MODEL"    envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"GOINTL_OPENAI_BASE_URL"`

	Env string `env:"GOINTL_ENV" envDefault:"development"`
}

// loadConfig reads the configuration from the environment.
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
