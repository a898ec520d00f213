// Package config loads user settings from the TOML config file and the
// RANKSHEET_* environment. Only the CLI layer reads this; core packages
// take their settings as explicit arguments.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/fantasytools/ranksheet/pkg/errors"
)

// Config is the resolved user configuration.
type Config struct {
	// ESPNURL and YahooURL override the scraped editorial page. A non-http
	// value switches the provider to its builtin sample.
	ESPNURL  string `toml:"espn_url"`
	YahooURL string `toml:"yahoo_url"`

	// ADPURL points the Sleeper provider at a pre-ranked JSON export.
	ADPURL string `toml:"adp_url"`

	// CacheTTLSeconds sets the freshness window for cached responses.
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`

	// RedisURL selects the Redis cache backend instead of the file cache.
	RedisURL string `toml:"redis_url"`

	// ESPN private API session cookies.
	ESPNS2 string `toml:"espn_s2"`
	SWID   string `toml:"swid"`
}

// CacheTTL returns the configured TTL as a duration, zero when unset.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ranksheet", "config.toml")
}

// Load reads the config file at path (missing file is not an error) and
// applies environment overrides on top. An empty path uses [DefaultPath].
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse config file: %s", path)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RANKSHEET_ESPN_URL"); v != "" {
		cfg.ESPNURL = v
	}
	if v := os.Getenv("RANKSHEET_YAHOO_URL"); v != "" {
		cfg.YahooURL = v
	}
	if v := os.Getenv("RANKSHEET_ADP_URL"); v != "" {
		cfg.ADPURL = v
	}
	if v := os.Getenv("RANKSHEET_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("RANKSHEET_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("RANKSHEET_ESPN_S2"); v != "" {
		cfg.ESPNS2 = v
	}
	if v := os.Getenv("RANKSHEET_SWID"); v != "" {
		cfg.SWID = v
	}
}
