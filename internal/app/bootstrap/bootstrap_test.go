package bootstrap

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"SILA_API_BASE_URL", "SILA_STATE_PATH", "SILA_STATE_KEY", "SILA_ENV", "SILA_LOG_LEVEL", "SILA_DEBOUNCE_WINDOW"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig()
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Env != DefaultEnv {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.StatePath == "" {
		t.Error("StatePath should have a default")
	}
	if cfg.DebounceWindow != 0 {
		t.Errorf("DebounceWindow = %v, want unset", cfg.DebounceWindow)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("SILA_API_BASE_URL", "https://api.sila.example")
	t.Setenv("SILA_DEBOUNCE_WINDOW", "150ms")
	t.Setenv("SILA_ENV", "production")

	cfg := LoadConfig()
	if cfg.BaseURL != "https://api.sila.example" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.DebounceWindow != 150*time.Millisecond {
		t.Errorf("DebounceWindow = %v", cfg.DebounceWindow)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %q", cfg.Env)
	}
}

func TestNew_WiresViews(t *testing.T) {
	cfg := LoadConfig()
	cfg.StatePath = filepath.Join(t.TempDir(), "state.json")
	cfg.DebounceWindow = 50 * time.Millisecond

	app, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer app.Close()

	if app.Sess == nil || app.API == nil {
		t.Fatal("session or transport not wired")
	}
	if app.Account == nil || app.Programs == nil || app.Events == nil ||
		app.Beneficiaries == nil || app.Dashboard == nil {
		t.Fatal("feature views not wired")
	}
	if app.Sess.IsAuthenticated() {
		t.Error("fresh state should be anonymous")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	log, err := NewLogger(Config{Env: "production", LogLevel: "warn"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer log.Sync()
	if log.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !log.Core().Enabled(zap.WarnLevel) {
		t.Error("warn should be enabled")
	}
}
