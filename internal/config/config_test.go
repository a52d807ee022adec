package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:             "8082",
		DataBackend:      "memory",
		NarrationTimeout: 15 * time.Second,
		CacheTTL:         5 * time.Minute,
		CacheSize:        100,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid memory backend config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid sqlite backend config",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = filepath.Join(t.TempDir(), "test.db")
			},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets'",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "missing external fixture",
			mutate:      func(c *Config) { c.FixturePath = "/nonexistent/fixture.json" },
			wantErr:     true,
			errorString: "is not readable",
		},
		{
			name:        "non-positive narration timeout",
			mutate:      func(c *Config) { c.NarrationTimeout = 0 },
			wantErr:     true,
			errorString: "narration timeout must be positive",
		},
		{
			name:        "non-positive cache TTL",
			mutate:      func(c *Config) { c.CacheTTL = -time.Second },
			wantErr:     true,
			errorString: "cache TTL must be positive",
		},
		{
			name:        "cache size below one",
			mutate:      func(c *Config) { c.CacheSize = 0 },
			wantErr:     true,
			errorString: "cache size must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errorString)
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8082" {
		t.Fatalf("expected default port 8082, got %q", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Fatalf("expected memory backend default, got %q", cfg.DataBackend)
	}
	if cfg.NarrationTimeout != 15*time.Second {
		t.Fatalf("unexpected narration timeout default: %v", cfg.NarrationTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
