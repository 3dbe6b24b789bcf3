// internal/app/bootstrap/config.go
package bootstrap

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds everything the client needs to run. Values come from
// environment variables (a .env file is loaded first when present):
//   - SILA_API_BASE_URL: platform API base URL
//   - SILA_STATE_PATH: path of the persisted session state file
//   - SILA_STATE_KEY: signing key for persisted state (must be strong outside dev)
//   - SILA_ENV: "development" or "production" (controls logger construction)
//   - SILA_LOG_LEVEL: zap level name (debug, info, warn, error)
//   - SILA_DEBOUNCE_WINDOW: filter quiet window, e.g. "300ms"
//   - SILA_TIMEOUT_SHORT / _MEDIUM / _LONG: fetch windows (see timeouts)
type Config struct {
	BaseURL        string
	StatePath      string
	StateKey       string
	Env            string
	LogLevel       string
	DebounceWindow time.Duration
}

// Defaults mirror a local development backend.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultEnv     = "development"

	// Fine for dev; state signed with this key is trivially forgeable.
	devStateKey = "dev-only-change-me-please-0123456789ABCDEF"
)

// LoadConfig reads the configuration from the environment, applying
// defaults for everything unset.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:   envOr("SILA_API_BASE_URL", DefaultBaseURL),
		StatePath: envOr("SILA_STATE_PATH", defaultStatePath()),
		StateKey:  envOr("SILA_STATE_KEY", devStateKey),
		Env:       envOr("SILA_ENV", DefaultEnv),
		LogLevel:  os.Getenv("SILA_LOG_LEVEL"),
	}
	if v := os.Getenv("SILA_DEBOUNCE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.DebounceWindow = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "siladesk-state.json"
	}
	return filepath.Join(home, ".siladesk", "state.json")
}
