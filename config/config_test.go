package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRANSIT_API_URL", "TRANSIT_WS_URL",
		"HTTP_TIMEOUT_SECONDS", "WS_DIAL_TIMEOUT_SECONDS", "WS_RECONNECT_DELAY_SECONDS",
		"DATA_PATH", "STATE_PASSPHRASE", "LANGUAGE",
	} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.API.BaseURL != "http://localhost:8080/api/v1" {
			t.Errorf("unexpected default API URL: %q", cfg.API.BaseURL)
		}
		if cfg.API.Timeout != 10*time.Second {
			t.Errorf("unexpected default HTTP timeout: %v", cfg.API.Timeout)
		}
		if cfg.Broker.URL != "ws://localhost:8082/api/v1/ws" {
			t.Errorf("unexpected default broker URL: %q", cfg.Broker.URL)
		}
		if cfg.Broker.ReconnectDelay != 5*time.Second {
			t.Errorf("unexpected default reconnect delay: %v", cfg.Broker.ReconnectDelay)
		}
		if cfg.State.Path != "./data/durak.db" {
			t.Errorf("unexpected default state path: %q", cfg.State.Path)
		}
		if cfg.Language != "en" {
			t.Errorf("unexpected default language: %q", cfg.Language)
		}
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TRANSIT_API_URL", "https://transit.example.com/api/v1")
		t.Setenv("WS_RECONNECT_DELAY_SECONDS", "2")
		t.Setenv("STATE_PASSPHRASE", "hunter2")
		t.Setenv("LANGUAGE", "tr")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.API.BaseURL != "https://transit.example.com/api/v1" {
			t.Errorf("unexpected API URL: %q", cfg.API.BaseURL)
		}
		if cfg.Broker.ReconnectDelay != 2*time.Second {
			t.Errorf("unexpected reconnect delay: %v", cfg.Broker.ReconnectDelay)
		}
		if cfg.State.Passphrase != "hunter2" {
			t.Errorf("unexpected passphrase: %q", cfg.State.Passphrase)
		}
		if cfg.Language != "tr" {
			t.Errorf("unexpected language: %q", cfg.Language)
		}
	})

	t.Run("rejects non-numeric durations", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HTTP_TIMEOUT_SECONDS", "soon")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for non-numeric HTTP_TIMEOUT_SECONDS")
		}
	})
}
