package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/swappo/authsvc/internal/flagx"
	"github.com/swappo/authsvc/internal/timex"
)

// JsonConfig is the intermediate DTO for reading a JSON configuration file.
// Interval fields use timex.Duration so both "30m" strings and integer
// nanoseconds parse.
type JsonConfig struct {
	RunAddr         string         `json:"run_addr"`
	StorageMode     string         `json:"storage_mode"`
	DatabaseDSN     string         `json:"database_dsn"`
	AccessSecret    string         `json:"access_secret"`
	RefreshSecret   string         `json:"refresh_secret"`
	AccessTokenTTL  timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL timex.Duration `json:"refresh_token_ttl"`
}

// parseJson overlays values from the JSON file named by the -c/-config
// flags, when present. Unset fields keep their current values. An unreadable
// or malformed file panics: a half-applied config is worse than no start.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.RunAddr != "" {
		config.RunAddr = c.RunAddr
	}
	if c.StorageMode != "" {
		config.StorageMode = c.StorageMode
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AccessSecret != "" {
		config.AccessSecret = c.AccessSecret
	}
	if c.RefreshSecret != "" {
		config.RefreshSecret = c.RefreshSecret
	}
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = time.Duration(c.AccessTokenTTL.Duration)
	}
	if c.RefreshTokenTTL.Duration != 0 {
		config.RefreshTokenTTL = time.Duration(c.RefreshTokenTTL.Duration)
	}
}
