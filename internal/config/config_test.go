// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 5000 {
		t.Errorf("server = %s:%d, want 127.0.0.1:5000", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Graph.BaseIRI != "http://example.org/s2a#" {
		t.Errorf("BaseIRI = %q", cfg.Graph.BaseIRI)
	}
	if cfg.Security.AuthMode != "none" {
		t.Errorf("AuthMode = %q, want none", cfg.Security.AuthMode)
	}
	if cfg.Query.MaxRows != 10000 {
		t.Errorf("MaxRows = %d, want 10000", cfg.Query.MaxRows)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("DATA_DIR", "/srv/data")
	t.Setenv("QUERY_TIMEOUT", "10s")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Graph.DataDir != "/srv/data" {
		t.Errorf("DataDir = %q", cfg.Graph.DataDir)
	}
	if cfg.Query.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Query.Timeout)
	}
	want := []string{"http://a.example", "http://b.example"}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  port: 9000\ngraph:\n  data_dir: /tmp/kg\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Graph.DataDir != "/tmp/kg" {
		t.Errorf("DataDir = %q", cfg.Graph.DataDir)
	}

	t.Run("env beats file", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "9001")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Server.Port != 9001 {
			t.Errorf("Port = %d, want 9001", cfg.Server.Port)
		}
	})
}

func TestValidate_JWTMode(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"short secret",
			func(c *Config) {
				c.Security.AuthMode = "jwt"
				c.Security.JWTSecret = "short"
			},
			"at least 32 characters",
		},
		{
			"missing admin credentials",
			func(c *Config) {
				c.Security.AuthMode = "jwt"
				c.Security.JWTSecret = strings.Repeat("s", 32)
			},
			"ADMIN_USERNAME and ADMIN_PASSWORD",
		},
		{
			"valid jwt mode",
			func(c *Config) {
				c.Security.AuthMode = "jwt"
				c.Security.JWTSecret = strings.Repeat("s", 32)
				c.Security.AdminUsername = "admin"
				c.Security.AdminPassword = "correct horse battery staple"
			},
			"",
		},
		{
			"bad auth mode",
			func(c *Config) { c.Security.AuthMode = "basic" },
			"invalid configuration",
		},
		{
			"bad port",
			func(c *Config) { c.Server.Port = 0 },
			"invalid configuration",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestEnvTransform_SkipsUnknown(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("envTransformFunc(PATH) = %q, want skipped", got)
	}
	if got := envTransformFunc("HTTP_PORT"); got != "server.port" {
		t.Errorf("envTransformFunc(HTTP_PORT) = %q", got)
	}
}
