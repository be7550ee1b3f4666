package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	DatabaseURL string `env:"DATABASE_URL"`

	// PayoutWorkers enables the background payout runner when > 0.
	PayoutWorkers      int           `env:"PAYOUT_WORKERS" envDefault:"0"`
	PayoutPollInterval time.Duration `env:"PAYOUT_POLL_INTERVAL" envDefault:"500ms"`

	// Bounded retry for the referrer claim lookup; fixed delay, fixed count.
	ClaimRetries   uint64        `env:"CLAIM_RETRIES" envDefault:"5"`
	ClaimRetryWait time.Duration `env:"CLAIM_RETRY_WAIT" envDefault:"300ms"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}
