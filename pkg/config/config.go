// Package config loads quiver settings from a TOML file and the environment.
//
// The file has four parts:
//
//	log_level = "info"
//
//	[render]            # default pipeline.Options for every render
//	scale = "250k"
//	projection = "M6i"
//
//	[[palettes]]        # named palettes, usable as render.palette
//	name = "speed"
//	stops = [{ z = 0, color = "white" }, { z = 30, color = "red" }]
//
//	[cache]
//	dir = "/var/cache/quiver"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
// Environment variables override the file: QUIVER_LOG_LEVEL,
// QUIVER_CACHE_DIR, QUIVER_REDIS_ADDR and QUIVER_HTTP_ADDR.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/palette"
	"github.com/matzehuels/quiver/pkg/pipeline"
)

// Config holds all settings.
type Config struct {
	LogLevel string           `toml:"log_level"`
	Render   pipeline.Options `toml:"render"`
	Palettes []palette.Def    `toml:"palettes"`
	Cache    CacheConfig      `toml:"cache"`
	Server   ServerConfig     `toml:"server"`
}

// CacheConfig selects the artifact cache backend. A non-empty RedisAddr
// selects Redis; otherwise files under Dir are used.
type CacheConfig struct {
	Disabled      bool   `toml:"disabled"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// ServerConfig configures `quiver serve`.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Cache: CacheConfig{
			Dir: DefaultCacheDir(),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    64 << 20,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/quiver/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quiver", "config.toml")
}

// DefaultCacheDir is $XDG_CACHE_HOME/quiver.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "quiver-cache")
	}
	return filepath.Join(dir, "quiver")
}

// Load reads path over the defaults and applies environment overrides.
// An empty path reads DefaultPath if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			path = ""
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML text over the defaults, without environment overrides.
func Decode(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.LogLevel = envOrDefault("QUIVER_LOG_LEVEL", c.LogLevel)
	c.Cache.Dir = envOrDefault("QUIVER_CACHE_DIR", c.Cache.Dir)
	c.Cache.RedisAddr = envOrDefault("QUIVER_REDIS_ADDR", c.Cache.RedisAddr)
	c.Server.Addr = envOrDefault("QUIVER_HTTP_ADDR", c.Server.Addr)
	if v := os.Getenv("QUIVER_CACHE_DISABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid QUIVER_CACHE_DISABLED %q", v)
		}
		c.Cache.Disabled = b
	}
	return nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid log level %q (valid: debug, info, warn, error)", c.LogLevel)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server address is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server timeouts cannot be negative")
	}
	if _, err := c.PaletteTables(); err != nil {
		return err
	}
	return nil
}

// PaletteTables builds the named palettes.
func (c *Config) PaletteTables() (map[string]*palette.Table, error) {
	return palette.Build(c.Palettes)
}

// RenderOptions returns the [render] defaults with the named palettes
// attached, ready to be overridden by flags or request fields.
func (c *Config) RenderOptions() (pipeline.Options, error) {
	tables, err := c.PaletteTables()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := c.Render
	opts.Formats = append([]string(nil), c.Render.Formats...)
	opts.Palettes = tables
	return opts, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
