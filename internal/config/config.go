package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 应用配置
type Config struct {
	Port      string        `env:"CRIMESTATS_PORT"       envDefault:":8080"`
	DBPath    string        `env:"CRIMESTATS_DB_PATH"    envDefault:"./data/crimes.db"`
	JWTSecret string        `env:"CRIMESTATS_JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	TokenTTL  time.Duration `env:"CRIMESTATS_TOKEN_TTL"  envDefault:"24h"`

	LogLevel  string `env:"CRIMESTATS_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"CRIMESTATS_LOG_FORMAT" envDefault:"text"`

	RateLimit float64 `env:"CRIMESTATS_RATE_LIMIT" envDefault:"20"` // requests per second per client
	RateBurst int     `env:"CRIMESTATS_RATE_BURST" envDefault:"40"`

	TopGroupsLimit int    `env:"CRIMESTATS_TOP_GROUPS_LIMIT" envDefault:"10"`
	LoadBatchSize  int    `env:"CRIMESTATS_LOAD_BATCH_SIZE"  envDefault:"1000"`
	CSVPath        string `env:"CRIMESTATS_CSV_PATH"         envDefault:"data/crime.csv"`
}

// Load 加载配置
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env parsing cannot express.
func (c *Config) Validate() error {
	if c.RateLimit <= 0 {
		return fmt.Errorf("config error: CRIMESTATS_RATE_LIMIT must be positive, got %v", c.RateLimit)
	}
	if c.RateBurst <= 0 {
		return fmt.Errorf("config error: CRIMESTATS_RATE_BURST must be positive, got %d", c.RateBurst)
	}
	if c.TopGroupsLimit <= 0 {
		return fmt.Errorf("config error: CRIMESTATS_TOP_GROUPS_LIMIT must be positive, got %d", c.TopGroupsLimit)
	}
	if c.LoadBatchSize <= 0 {
		return fmt.Errorf("config error: CRIMESTATS_LOAD_BATCH_SIZE must be positive, got %d", c.LoadBatchSize)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config error: CRIMESTATS_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}
