package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/hexit/internal/rank"
)

// noEnvFile points Load at a file that does not exist.
func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Rank.Policy != rank.PolicyPriority {
		t.Errorf("default policy = %q, want %q", cfg.Rank.Policy, rank.PolicyPriority)
	}
	if cfg.Fetch.Timeout != 0 {
		t.Errorf("default fetch timeout = %s, want 0", cfg.Fetch.Timeout)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HEXIT_CONFIG", "")
	cfg, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "hexit.toml", `
[server]
addr = "127.0.0.1:9000"
shutdown_timeout = "2s"

[fetch]
timeout = "15s"
max_bytes = 1024

[extract]
colour_count = 32
quality = 2

[rank]
policy = "dominance"

[log]
level = "debug"
json = true
`)

	cfg, err := Load(LoadOptions{Path: path, EnvFile: noEnvFile(t)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 2*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 2s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Fetch.Timeout != 15*time.Second {
		t.Errorf("Fetch.Timeout = %s, want 15s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxBytes != 1024 {
		t.Errorf("Fetch.MaxBytes = %d, want 1024", cfg.Fetch.MaxBytes)
	}
	if cfg.Extract.ColourCount != 32 || cfg.Extract.Quality != 2 {
		t.Errorf("Extract = %+v", cfg.Extract)
	}
	// Unset keys keep their defaults.
	if cfg.Extract.MaxDimension != 256 {
		t.Errorf("Extract.MaxDimension = %d, want default 256", cfg.Extract.MaxDimension)
	}
	if cfg.Rank.Policy != rank.PolicyDominance {
		t.Errorf("Policy = %q, want dominance", cfg.Rank.Policy)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "hexit.toml", `
[rank]
policy = "dominance"
`)
	t.Setenv("HEXIT_RANK_POLICY", "PRIORITY")
	t.Setenv("HEXIT_ADDR", ":7070")
	t.Setenv("HEXIT_FETCH_TIMEOUT", "3s")
	t.Setenv("HEXIT_FETCH_BLOCK_PRIVATE", "true")
	t.Setenv("HEXIT_IDLE_TIMEOUT", "2m")
	t.Setenv("HEXIT_EXTRACT_MAX_PIXELS", "1000")

	cfg, err := Load(LoadOptions{Path: path, EnvFile: noEnvFile(t)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Rank.Policy != rank.PolicyPriority {
		t.Errorf("Policy = %q, want priority", cfg.Rank.Policy)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Server.Addr)
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Errorf("Fetch.Timeout = %s, want 3s", cfg.Fetch.Timeout)
	}
	if !cfg.Fetch.BlockPrivateHosts {
		t.Error("Fetch.BlockPrivateHosts = false, want true")
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("Server.IdleTimeout = %s, want 2m", cfg.Server.IdleTimeout)
	}
	if cfg.Extract.MaxPixels != 1000 {
		t.Errorf("Extract.MaxPixels = %d, want 1000", cfg.Extract.MaxPixels)
	}
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	path := writeFile(t, "hexit.toml", "[server]\naddr = \":6060\"\n")
	t.Setenv("HEXIT_CONFIG", path)

	cfg, err := Load(LoadOptions{EnvFile: noEnvFile(t)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":6060" {
		t.Errorf("Addr = %q, want :6060", cfg.Server.Addr)
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "HEXIT_LOG_JSON"
	if _, ok := os.LookupEnv(key); ok {
		t.Skipf("%s already set in the environment", key)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	envFile := writeFile(t, ".env", key+"=true\n")
	cfg, err := Load(LoadOptions{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Log.JSON {
		t.Error("Log.JSON = false, want true from .env")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown policy",
			file:    "[rank]\npolicy = \"loudest\"\n",
			wantErr: "unknown ranking policy",
		},
		{
			name:    "bad toml",
			file:    "[server\naddr = 1\n",
			wantErr: "failed to read config file",
		},
		{
			name:    "bad duration env",
			env:     map[string]string{"HEXIT_FETCH_TIMEOUT": "soon"},
			wantErr: "HEXIT_FETCH_TIMEOUT",
		},
		{
			name:    "bad bool env",
			env:     map[string]string{"HEXIT_LOG_JSON": "maybe"},
			wantErr: "HEXIT_LOG_JSON",
		},
		{
			name:    "negative max bytes",
			env:     map[string]string{"HEXIT_FETCH_MAX_BYTES": "-1"},
			wantErr: "max bytes",
		},
		{
			name:    "bad idle timeout env",
			env:     map[string]string{"HEXIT_IDLE_TIMEOUT": "later"},
			wantErr: "HEXIT_IDLE_TIMEOUT",
		},
		{
			name:    "bad max pixels env",
			env:     map[string]string{"HEXIT_EXTRACT_MAX_PIXELS": "lots"},
			wantErr: "HEXIT_EXTRACT_MAX_PIXELS",
		},
		{
			name:    "negative max pixels",
			env:     map[string]string{"HEXIT_EXTRACT_MAX_PIXELS": "-5"},
			wantErr: "max pixels",
		},
		{
			name:    "bad log level",
			env:     map[string]string{"HEXIT_LOG_LEVEL": "chatty"},
			wantErr: "unknown log level",
		},
		{
			name:    "bad extractor",
			file:    "[extract]\nquality = 0\n",
			wantErr: "quality",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HEXIT_CONFIG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := LoadOptions{EnvFile: noEnvFile(t)}
			if tt.file != "" {
				opts.Path = writeFile(t, "hexit.toml", tt.file)
			}

			_, err := Load(opts)
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
