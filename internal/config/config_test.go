package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RESULTS_API_URL", "")
	t.Setenv("RESULTS_API_TIMEOUT", "")
	t.Setenv("DB_TYPE", "")
	t.Setenv("ADMIN_USERNAME", "")

	cfg := Load()

	if cfg.ResultsAPIURL != "http://localhost:5000/api" {
		t.Errorf("ResultsAPIURL = %q, want default", cfg.ResultsAPIURL)
	}
	if cfg.ResultsAPITimeout != 30*time.Second {
		t.Errorf("ResultsAPITimeout = %v, want 30s", cfg.ResultsAPITimeout)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("AdminUsername = %q, want admin", cfg.AdminUsername)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want sqlite", cfg.DatabaseType)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RESULTS_API_URL", "https://results.example.org/api")
	t.Setenv("RESULTS_API_TIMEOUT", "5s")
	t.Setenv("SESSION_DURATION", "not-a-duration")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	if cfg.ResultsAPIURL != "https://results.example.org/api" {
		t.Errorf("ResultsAPIURL = %q", cfg.ResultsAPIURL)
	}
	if cfg.ResultsAPITimeout != 5*time.Second {
		t.Errorf("ResultsAPITimeout = %v, want 5s", cfg.ResultsAPITimeout)
	}
	if cfg.SessionDuration != 12*time.Hour {
		t.Errorf("SessionDuration = %v, want fallback 12h", cfg.SessionDuration)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}
