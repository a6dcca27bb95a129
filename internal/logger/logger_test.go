//nolint:testpackage // testing internal construction behavior
package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New(Config{Level: "debug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log == nil {
		t.Fatal("expected a logger")
	}

	// Should not panic.
	log.Debug("debug message", String("key", "value"))
	log.Info("info message", Int("count", 1))
}

func TestNewInvalidOutputPath(t *testing.T) {
	_, err := New(Config{OutputPaths: []string{"unknown-scheme://nope"}})
	if err == nil {
		t.Fatal("expected an error for an invalid output path")
	}
}

func TestWith(t *testing.T) {
	log, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	child := log.With(String("component", "test"))
	if child == nil {
		t.Fatal("expected a child logger")
	}
	child.Info("message from child")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"INFO", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tc := range tests {
		if got := parseLevel(tc.input); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Info("discarded")
	if err := log.Sync(); err != nil {
		t.Errorf("unexpected sync error: %v", err)
	}
}
