package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"homework_bot/internal/failure"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "config error",
			err:  failure.Errorf(failure.KindConfigMissing, "load config", "missing TELEGRAM_TOKEN"),
			want: exitConfigError,
		},
		{
			name: "other error",
			err:  errors.New("boom"),
			want: exitFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, exitCode(tt.err)); diff != "" {
				t.Errorf("exitCode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.log")

	log, closeLog, err := newLogger("debug", path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Debug("no homework updates")
	closeLog()

	data, err := os.ReadFile(path) //nolint:gosec // test-only temp file
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"time=", "level=DEBUG", `msg="no homework updates"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log %q does not contain %q", data, want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, closeLog, err := newLogger(tt.level, "")
			if err != nil {
				t.Fatalf("new logger: %v", err)
			}
			defer closeLog()
			if !log.Enabled(context.Background(), tt.want) {
				t.Errorf("level %s should be enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && log.Enabled(context.Background(), tt.want-1) {
				t.Errorf("level below %s should be disabled", tt.want)
			}
		})
	}
}

func TestRunMissingConfigIsLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("PRACTICUM_TOKEN", "p-token")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")
	t.Setenv("TELEGRAM_TOKEN", "")

	if diff := cmp.Diff(exitConfigError, run()); diff != "" {
		t.Errorf("run() exit code mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path) //nolint:gosec // test-only temp file
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"level=ERROR", `msg="load config"`, "kind=config_missing", "TELEGRAM_TOKEN"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log %q does not contain %q", data, want)
		}
	}
}
