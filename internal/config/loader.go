// Package config loads process configuration from the environment.
//
// Values come from PLANNER_-prefixed variables, for example PLANNER_PORT=8080
// or PLANNER_DB_DRIVER=postgres. A .env file in the working directory is read
// first when present; variables already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name.
const Prefix = "PLANNER"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Cache    CacheConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	// Driver is sqlite or postgres.
	Driver string `envconfig:"DB_DRIVER" default:"sqlite"`
	// DSN is a modernc sqlite DSN or a PostgreSQL connection URL.
	DSN             string        `envconfig:"DB_DSN" default:"file:planner.db"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	// Format is json, text or plain.
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// CacheConfig tunes the per-user calendar window cache.
type CacheConfig struct {
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"30s"`
	Size int           `envconfig:"CACHE_SIZE" default:"128"`
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFiles ...string) (*Config, error) {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	var cfg Config
	sections := []struct {
		name   string
		target any
	}{
		{"server", &cfg.Server},
		{"database", &cfg.Database},
		{"log", &cfg.Log},
		{"cache", &cfg.Cache},
	}
	for _, section := range sections {
		if err := envconfig.Process(Prefix, section.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", section.name, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	invalid := make([]string, 0, 4)

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		invalid = append(invalid, Prefix+"_PORT")
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		invalid = append(invalid, Prefix+"_DB_DRIVER")
	}
	if c.Database.Driver == "postgres" && strings.TrimSpace(c.Database.DSN) == "" {
		invalid = append(invalid, Prefix+"_DB_DSN")
	}

	if c.Cache.TTL < 0 {
		invalid = append(invalid, Prefix+"_CACHE_TTL")
	}
	if c.Cache.Size < 0 {
		invalid = append(invalid, Prefix+"_CACHE_SIZE")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}
	return nil
}
