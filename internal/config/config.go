// Package config loads Hexit settings from defaults, an optional TOML file,
// a .env file and HEXIT_* environment variables, in increasing precedence.
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jmylchreest/hexit/internal/colour"
	"github.com/jmylchreest/hexit/internal/rank"
)

const (
	// EnvPrefix prefixes every environment variable Hexit reads.
	EnvPrefix = "HEXIT_"

	// DefaultEnvFile is loaded when present.
	DefaultEnvFile = ".env"
)

// Config is the complete runtime configuration.
type Config struct {
	Server  ServerConfig           `toml:"server"`
	Fetch   FetchConfig            `toml:"fetch"`
	Extract colour.ExtractorConfig `toml:"extract"`
	Rank    RankConfig             `toml:"rank"`
	Log     LogConfig              `toml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// FetchConfig configures image retrieval.
type FetchConfig struct {
	// Timeout of 0 leaves the transport defaults in charge.
	Timeout time.Duration `toml:"timeout"`
	// MaxBytes of 0 means no body size limit.
	MaxBytes  int64  `toml:"max_bytes"`
	UserAgent string `toml:"user_agent"`
	// BlockPrivateHosts refuses URLs naming loopback or private addresses.
	BlockPrivateHosts bool `toml:"block_private_hosts"`
}

// RankConfig selects the ranking policy.
type RankConfig struct {
	Policy rank.Policy `toml:"policy"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     time.Minute,
			ShutdownTimeout: 5 * time.Second,
		},
		Fetch: FetchConfig{
			MaxBytes: 25 << 20,
		},
		Extract: colour.DefaultExtractorConfig(),
		Rank: RankConfig{
			Policy: rank.DefaultPolicy,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// Path is the TOML file. Empty falls back to HEXIT_CONFIG, and no file
	// is read if that is empty too.
	Path string

	// EnvFile is loaded into the environment before overrides are read.
	// Empty means DefaultEnvFile. A missing file is not an error.
	EnvFile string
}

// Load builds the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	cfg := Default()

	path := opts.Path
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides fields from HEXIT_* variables.
func (c *Config) applyEnv() error {
	var errs []error
	lookup := func(key string) (string, bool) {
		value, ok := os.LookupEnv(EnvPrefix + key)
		return strings.TrimSpace(value), ok && strings.TrimSpace(value) != ""
	}
	duration := func(key string, dst *time.Duration) {
		if value, ok := lookup(key); ok {
			d, err := time.ParseDuration(value)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	if value, ok := lookup("ADDR"); ok {
		c.Server.Addr = value
	}
	duration("READ_TIMEOUT", &c.Server.ReadTimeout)
	duration("WRITE_TIMEOUT", &c.Server.WriteTimeout)
	duration("IDLE_TIMEOUT", &c.Server.IdleTimeout)
	duration("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	duration("FETCH_TIMEOUT", &c.Fetch.Timeout)
	if value, ok := lookup("FETCH_MAX_BYTES"); ok {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sFETCH_MAX_BYTES: %w", EnvPrefix, err))
		} else {
			c.Fetch.MaxBytes = n
		}
	}
	if value, ok := lookup("FETCH_USER_AGENT"); ok {
		c.Fetch.UserAgent = value
	}
	if value, ok := lookup("FETCH_BLOCK_PRIVATE"); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sFETCH_BLOCK_PRIVATE: %w", EnvPrefix, err))
		} else {
			c.Fetch.BlockPrivateHosts = b
		}
	}
	if value, ok := lookup("EXTRACT_MAX_PIXELS"); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sEXTRACT_MAX_PIXELS: %w", EnvPrefix, err))
		} else {
			c.Extract.MaxPixels = n
		}
	}
	if value, ok := lookup("RANK_POLICY"); ok {
		c.Rank.Policy = rank.Policy(strings.ToLower(value))
	}
	if value, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = value
	}
	if value, ok := lookup("LOG_JSON"); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sLOG_JSON: %w", EnvPrefix, err))
		} else {
			c.Log.JSON = b
		}
	}

	return errors.Join(errs...)
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch timeout cannot be negative, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.MaxBytes < 0 {
		return fmt.Errorf("fetch max bytes cannot be negative, got %d", c.Fetch.MaxBytes)
	}
	if err := c.Extract.Validate(); err != nil {
		return err
	}
	if !rank.IsValidPolicy(c.Rank.Policy) {
		return fmt.Errorf("unknown ranking policy: %q (valid: %v)", c.Rank.Policy, rank.ValidPolicies())
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("unknown log level: %q", c.Log.Level)
	}
	return nil
}
