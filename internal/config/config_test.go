package config

import (
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvPort, EnvLogLevel, EnvDataDir, EnvDBType, EnvPostgresDSN,
		EnvSuggestURL, EnvSuggestToken, EnvSuggestTimeout,
		EnvAutosave, EnvHeadless, EnvShowSuggestions, EnvAPIToken,
	} {
		t.Setenv(k, "")
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.DBType() != DBTypeSQLite {
		t.Errorf("DBType = %q, want %q", cfg.DBType(), DBTypeSQLite)
	}
	if cfg.SuggestURL() != "" {
		t.Errorf("SuggestURL = %q, want empty", cfg.SuggestURL())
	}
	if cfg.SuggestTimeout() != 120*time.Second {
		t.Errorf("SuggestTimeout = %v, want 2m", cfg.SuggestTimeout())
	}
	if cfg.AutosaveInterval() != 30*time.Second {
		t.Errorf("AutosaveInterval = %v, want 30s", cfg.AutosaveInterval())
	}
	if cfg.Headless() {
		t.Error("Headless = true, want false")
	}
	if !cfg.ShowSuggestions() {
		t.Error("ShowSuggestions = false, want true")
	}
	if cfg.APIToken() != "" {
		t.Errorf("APIToken = %q, want empty", cfg.APIToken())
	}
}

func TestNew_FromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvPort, "9001")
	t.Setenv(EnvDataDir, dir)
	t.Setenv(EnvSuggestURL, "https://suggest.example.com/")
	t.Setenv(EnvSuggestToken, "secret-token")
	t.Setenv(EnvSuggestTimeout, "15")
	t.Setenv(EnvAutosave, "0")
	t.Setenv(EnvHeadless, "true")
	t.Setenv(EnvShowSuggestions, "false")
	t.Setenv(EnvAPIToken, "local-api-token")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9001 {
		t.Errorf("Port = %d, want 9001", cfg.Port())
	}
	if cfg.DBPath() != filepath.Join(dir, DBFilename) {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
	if cfg.SuggestURL() != "https://suggest.example.com" {
		t.Errorf("SuggestURL = %q, want trailing slash trimmed", cfg.SuggestURL())
	}
	if cfg.SuggestToken() != "secret-token" {
		t.Errorf("SuggestToken = %q", cfg.SuggestToken())
	}
	if cfg.SuggestTimeout() != 15*time.Second {
		t.Errorf("SuggestTimeout = %v, want 15s", cfg.SuggestTimeout())
	}
	if cfg.AutosaveInterval() != 0 {
		t.Errorf("AutosaveInterval = %v, want 0", cfg.AutosaveInterval())
	}
	if !cfg.Headless() || cfg.ShowSuggestions() {
		t.Errorf("Headless = %v ShowSuggestions = %v", cfg.Headless(), cfg.ShowSuggestions())
	}
	if cfg.APIToken() != "local-api-token" {
		t.Errorf("APIToken = %q", cfg.APIToken())
	}
}

func TestNew_Postgres(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDBType, "POSTGRES")

	if _, err := New(); err == nil {
		t.Fatal("expected error without a DSN")
	}

	t.Setenv(EnvPostgresDSN, "postgres://editor@localhost/editor")
	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBType() != DBTypePostgres || cfg.PostgresDSN() == "" {
		t.Errorf("DBType = %q DSN = %q", cfg.DBType(), cfg.PostgresDSN())
	}
}

func TestNew_InvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"port not a number", EnvPort, "http"},
		{"port out of range", EnvPort, "70000"},
		{"unknown db type", EnvDBType, "mongo"},
		{"zero timeout", EnvSuggestTimeout, "0"},
		{"negative autosave", EnvAutosave, "-5"},
		{"headless not bool", EnvHeadless, "sometimes"},
		{"show suggestions not bool", EnvShowSuggestions, "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := New(); err == nil {
				t.Fatalf("New() with %s=%q: expected error", tt.key, tt.value)
			}
		})
	}
}
