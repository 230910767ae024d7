// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package config loads layered configuration: built-in defaults, an
// optional YAML file, then environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Graph    GraphConfig    `koanf:"graph"`
	Query    QueryConfig    `koanf:"query"`
	Advisor  AdvisorConfig  `koanf:"advisor"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`
}

// GraphConfig configures the knowledge graph source.
type GraphConfig struct {
	// DataDir is the directory holding the CSV files.
	DataDir string `koanf:"data_dir" validate:"required"`

	// BaseIRI is the namespace for all minted IRIs.
	BaseIRI string `koanf:"base_iri" validate:"required,uri"`

	// WatchEnabled reloads the graph when CSV files change.
	WatchEnabled bool `koanf:"watch_enabled"`

	// WatchDebounce batches bursts of file events into one reload.
	WatchDebounce time.Duration `koanf:"watch_debounce" validate:"min=100ms"`
}

// QueryConfig bounds ad-hoc query execution.
type QueryConfig struct {
	Timeout time.Duration `koanf:"timeout" validate:"min=100ms"`
	MaxRows int           `koanf:"max_rows" validate:"min=1"`
}

// AdvisorConfig configures the recommendation engine.
type AdvisorConfig struct {
	CacheTTL        time.Duration `koanf:"cache_ttl" validate:"min=0"`
	MaxCacheEntries int           `koanf:"max_cache_entries" validate:"min=0"`
}

// StoreConfig configures saved-query persistence. An empty path keeps
// saved queries in memory only.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// SecurityConfig configures authentication and rate limiting.
type SecurityConfig struct {
	// AuthMode is "none" or "jwt".
	AuthMode string `koanf:"auth_mode" validate:"oneof=none jwt"`

	// JWTSecret signs tokens; required in jwt mode, minimum 32 bytes.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout bounds token lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout" validate:"min=1m"`

	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"min=1s"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, overridden by the
// config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "127.0.0.1",
			Port:    5000,
			Timeout: 30 * time.Second,
		},
		Graph: GraphConfig{
			DataDir:       "data",
			BaseIRI:       "http://example.org/s2a#",
			WatchEnabled:  false,
			WatchDebounce: 2 * time.Second,
		},
		Query: QueryConfig{
			Timeout: 5 * time.Second,
			MaxRows: 10000,
		},
		Advisor: AdvisorConfig{
			CacheTTL:        5 * time.Minute,
			MaxCacheEntries: 1024,
		},
		Store: StoreConfig{
			Path: "",
		},
		Security: SecurityConfig{
			AuthMode:        "none",
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			AdminUsername:   "",
			AdminPassword:   "",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration, including cross-field rules the
// struct tags cannot express.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Security.AuthMode == "jwt" {
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in jwt auth mode")
		}
		if c.Security.AdminUsername == "" || c.Security.AdminPassword == "" {
			return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required in jwt auth mode")
		}
	}
	return nil
}
