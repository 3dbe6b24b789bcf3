package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Short() != DefaultShort {
		t.Errorf("Short() = %v, want %v", Short(), DefaultShort)
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want %v", Medium(), DefaultMedium)
	}
	if Long() != DefaultLong {
		t.Errorf("Long() = %v, want %v", Long(), DefaultLong)
	}
}

func TestConfigure_ZeroValuesIgnored(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Short: 2 * time.Second})
	if Short() != 2*time.Second {
		t.Errorf("Short() = %v, want 2s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default %v", Medium(), DefaultMedium)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	Reset()
	defer Reset()

	t.Setenv("SILA_TIMEOUT_SHORT", "3s")
	t.Setenv("SILA_TIMEOUT_MEDIUM", "not-a-duration")
	t.Setenv("SILA_TIMEOUT_LONG", "2m")

	n := ConfigureFromEnv()
	if n != 2 {
		t.Errorf("ConfigureFromEnv() = %d, want 2", n)
	}
	if Short() != 3*time.Second {
		t.Errorf("Short() = %v, want 3s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default (invalid env value)", Medium())
	}
	if Long() != 2*time.Minute {
		t.Errorf("Long() = %v, want 2m", Long())
	}
}

func TestWithTimeout_CancelBeforeDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Minute, zap.NewNop(), "test op")
	cancel()
	if ctx.Err() != context.Canceled {
		t.Errorf("ctx.Err() = %v, want Canceled", ctx.Err())
	}
}
