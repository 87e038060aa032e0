// Package config loads and validates application configuration from the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// SummaryCacheTTL bounds staleness of cached reputation summaries.
	SummaryCacheTTL time.Duration `env:"SUMMARY_CACHE_TTL" default:"5m"`

	// RedemptionRatePerMinute caps redemption attempts per user.
	RedemptionRatePerMinute int `env:"REDEMPTION_RATE_PER_MINUTE" default:"10"`

	// VoucherExpirySweepInterval is how often active vouchers past their
	// expiry are transitioned to expired.
	VoucherExpirySweepInterval time.Duration `env:"VOUCHER_EXPIRY_SWEEP_INTERVAL" default:"1h"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"REDIS_URL":    cfg.RedisURL,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if cfg.RedemptionRatePerMinute <= 0 {
		return fmt.Errorf("REDEMPTION_RATE_PER_MINUTE must be positive, got %d", cfg.RedemptionRatePerMinute)
	}
	if cfg.SummaryCacheTTL <= 0 {
		return fmt.Errorf("SUMMARY_CACHE_TTL must be positive, got %s", cfg.SummaryCacheTTL)
	}

	return nil
}
