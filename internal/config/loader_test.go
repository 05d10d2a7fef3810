package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"TRAINING_HTTP_PORT",
			"TRAINING_STORAGE_BACKEND",
			"TRAINING_SQLITE_DSN",
			"TRAINING_DATA_DIR",
			"TRAINING_SESSION_TTL",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.StorageBackend != BackendSQLite {
			t.Fatalf("expected default backend %q, got %q", BackendSQLite, cfg.StorageBackend)
		}
		if cfg.SQLiteDSN != "file:training.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.DataDir != "data" {
			t.Fatalf("unexpected default data dir: %q", cfg.DataDir)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL 24h, got %s", cfg.SessionTTL)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("TRAINING_HTTP_PORT", "9090")
		t.Setenv("TRAINING_STORAGE_BACKEND", "jsonfile")
		t.Setenv("TRAINING_SQLITE_DSN", "file:/tmp/training.db")
		t.Setenv("TRAINING_DATA_DIR", "/tmp/training-data")
		t.Setenv("TRAINING_SESSION_TTL", "12h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.StorageBackend != BackendJSONFile {
			t.Fatalf("expected backend %q, got %q", BackendJSONFile, cfg.StorageBackend)
		}
		if cfg.SQLiteDSN != "file:/tmp/training.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.DataDir != "/tmp/training-data" {
			t.Fatalf("unexpected data dir: %q", cfg.DataDir)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected session TTL 12h, got %s", cfg.SessionTTL)
		}
	})

	t.Run("normalizes the backend selector", func(t *testing.T) {
		t.Setenv("TRAINING_STORAGE_BACKEND", "  SQLite ")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.StorageBackend != BackendSQLite {
			t.Fatalf("expected backend %q, got %q", BackendSQLite, cfg.StorageBackend)
		}
	})

	t.Run("reports every invalid value at once", func(t *testing.T) {
		t.Setenv("TRAINING_HTTP_PORT", "not-a-port")
		t.Setenv("TRAINING_STORAGE_BACKEND", "postgres")
		t.Setenv("TRAINING_SESSION_TTL", "-1h")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variable values: TRAINING_HTTP_PORT, TRAINING_STORAGE_BACKEND, TRAINING_SESSION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
