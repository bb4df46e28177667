package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the environment variables understood by the service.
// Pointer fields stay nil when the variable is unset, so only explicitly
// provided values overlay the config. TTLs follow the documented units:
// minutes for access tokens, days for refresh tokens.
type envConfig struct {
	RunAddr          *string `env:"RUN_ADDRESS"`
	StorageMode      *string `env:"STORAGE_MODE"`
	DatabaseDSN      *string `env:"DATABASE_URL"`
	AccessSecret     *string `env:"SECRET_KEY"`
	RefreshSecret    *string `env:"REFRESH_SECRET_KEY"`
	AccessTTLMinutes *int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	RefreshTTLDays   *int    `env:"REFRESH_TOKEN_EXPIRE_DAYS"`
}

func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.RunAddr != nil {
		config.RunAddr = *c.RunAddr
	}
	if c.StorageMode != nil {
		config.StorageMode = *c.StorageMode
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.AccessSecret != nil {
		config.AccessSecret = *c.AccessSecret
	}
	if c.RefreshSecret != nil {
		config.RefreshSecret = *c.RefreshSecret
	}
	if c.AccessTTLMinutes != nil {
		config.AccessTokenTTL = time.Duration(*c.AccessTTLMinutes) * time.Minute
	}
	if c.RefreshTTLDays != nil {
		config.RefreshTokenTTL = time.Duration(*c.RefreshTTLDays) * 24 * time.Hour
	}
}
