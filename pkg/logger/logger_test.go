package logger

import (
	"context"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Re-initialization must be safe
	if err := Init(); err != nil {
		t.Fatalf("failed to re-initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after re-initialization")
	}
}

// Basic logging test (slog-backed)
func TestLoggerBasic(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	logger := Get()
	ctx := context.Background()
	logger.Debug(ctx, "debug message", String("k", "v"))
	logger.Info(ctx, "info message", Int("n", 42), Float64("f", 1.5))
	logger.Warn(ctx, "warn message", Any("v", []int{1, 2}))
	logger.Error(ctx, "error message", Error(context.Canceled))
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	nested := namedLogger.Named("inner")
	if nested == nil {
		t.Fatal("nested named logger is nil")
	}

	ctx := context.Background()
	nested.Info(ctx, "test message")
}

func TestLoggerSetLevel(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "error"} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) failed: %v", level, err)
		}
	}

	if err := SetLevelString("nonsense"); err == nil {
		t.Error("expected error for invalid level string")
	}

	// Restore default
	if err := SetLevelString("info"); err != nil {
		t.Errorf("failed to restore level: %v", err)
	}
}
