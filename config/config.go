package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is parsed from the environment. PostgresURL and RedisAddr empty
// means dev mode: in-memory repositories and the in-process pub/sub.
type Config struct {
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`
	PostgresURL    string `env:"POSTGRES_URL"`
	RedisAddr      string `env:"REDIS_ADDR"`
	InventoryURL   string `env:"INVENTORY_URL"`
	JaegerEndpoint string `env:"JAEGER_ENDPOINT"`

	// Disruption classification thresholds, business rules taken as given.
	MediumDelayMinutes int `env:"MEDIUM_DELAY_MINUTES" envDefault:"45"`
	HighDelayMinutes   int `env:"HIGH_DELAY_MINUTES" envDefault:"120"`

	// Rebooking policy.
	ChangeFee              int `env:"CHANGE_FEE" envDefault:"500"`
	DowngradeChangeFee     int `env:"DOWNGRADE_CHANGE_FEE" envDefault:"200"`
	BudgetTolerancePercent int `env:"BUDGET_TOLERANCE_PERCENT" envDefault:"10"`

	// Worker retry budget before a message is dead-lettered.
	ProcessingTimeout time.Duration `env:"PROCESSING_TIMEOUT" envDefault:"10s"`
	MaxRetries        int           `env:"MAX_RETRIES" envDefault:"5"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config from environment: %w", err)
	}
	if cfg.MediumDelayMinutes >= cfg.HighDelayMinutes {
		return Config{}, fmt.Errorf("MEDIUM_DELAY_MINUTES (%d) must be below HIGH_DELAY_MINUTES (%d)",
			cfg.MediumDelayMinutes, cfg.HighDelayMinutes)
	}
	return cfg, nil
}
