package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Ensure envs are clean to use defaults
	os.Unsetenv("ROADWATCH_API_URL")
	os.Unsetenv("ROADWATCH_DB_PATH")
	os.Unsetenv("HTTP_TIMEOUT_SECONDS")
	os.Unsetenv("LOG_LEVEL")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != DefaultAPIBaseURL {
		t.Fatalf("unexpected base URL: %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 30 || cfg.Database.Path == "" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ROADWATCH_API_URL", "http://localhost:9090/api")
	t.Setenv("ROADWATCH_DB_PATH", "test.db")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9090/api" || cfg.Database.Path != "test.db" || cfg.API.TimeoutSeconds != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsBadTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric timeout")
	}
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}
