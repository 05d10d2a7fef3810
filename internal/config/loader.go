package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backend selectors accepted by the loader.
const (
	BackendSQLite   = "sqlite"
	BackendJSONFile = "jsonfile"
)

// Config captures environment driven configuration values for the training service.
type Config struct {
	HTTPPort       int
	StorageBackend string
	SQLiteDSN      string
	DataDir        string
	SessionTTL     time.Duration
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// supplied values and reporting every offending variable at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		StorageBackend: BackendSQLite,
		SQLiteDSN:      "file:training.db",
		DataDir:        "data",
		SessionTTL:     24 * time.Hour,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("TRAINING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "TRAINING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if backend := strings.TrimSpace(strings.ToLower(os.Getenv("TRAINING_STORAGE_BACKEND"))); backend != "" {
		switch backend {
		case BackendSQLite, BackendJSONFile:
			cfg.StorageBackend = backend
		default:
			invalid = append(invalid, "TRAINING_STORAGE_BACKEND")
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("TRAINING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if dir := strings.TrimSpace(os.Getenv("TRAINING_DATA_DIR")); dir != "" {
		cfg.DataDir = dir
	}

	if ttlValue := strings.TrimSpace(os.Getenv("TRAINING_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "TRAINING_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
