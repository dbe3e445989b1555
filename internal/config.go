package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the client settings. Values come from the environment (and an
// optional .env file); command-line flags override them afterwards.
type Config struct {
	APIURL           string        `env:"KTIENDA_API_URL" envDefault:"http://localhost:8000"`
	Timeout          time.Duration `env:"KTIENDA_TIMEOUT" envDefault:"30s"`
	PollInterval     time.Duration `env:"KTIENDA_POLL_INTERVAL" envDefault:"10s"`
	NamePollInterval time.Duration `env:"KTIENDA_NAME_POLL_INTERVAL" envDefault:"5s"`
	SessionListTTL   time.Duration `env:"KTIENDA_SESSION_LIST_TTL" envDefault:"5s"`
	StateDir         string        `env:"KTIENDA_STATE_DIR"`
	LogFile          string        `env:"KTIENDA_LOG_FILE"`
	ReloadHistory    bool          `env:"KTIENDA_RELOAD_HISTORY" envDefault:"false"`
}

// LoadConfig reads envFile (if it exists) into the process environment and
// parses the KTIENDA_* variables.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, &ConfigError{Field: "env-file", Err: err}
			}
			LogDebug("No %s file found, using environment only", envFile)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return &ConfigError{Field: "api-url", Err: errors.New("must not be empty")}
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return &ConfigError{Field: "api-url", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ConfigError{Field: "api-url", Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return &ConfigError{Field: "api-url", Err: errors.New("missing host")}
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"timeout", c.Timeout},
		{"poll-interval", c.PollInterval},
		{"name-poll-interval", c.NamePollInterval},
		{"session-list-ttl", c.SessionListTTL},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return &ConfigError{Field: d.name, Err: fmt.Errorf("must be positive, got %s", d.d)}
		}
	}
	return nil
}

// Paths resolves the state locations for this config
func (c *Config) Paths() (StatePaths, error) {
	return DetectStatePaths(c.StateDir)
}

// LogPath returns the configured log file, defaulting to the state dir
func (c *Config) LogPath(paths StatePaths) string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return paths.LogPath()
}
