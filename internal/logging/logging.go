package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Setup configures slog to write JSONL to stderr and, when logFile is set,
// also to that file. Returns a logger and a cleanup function to close the
// file handle.
func Setup(logFile string, level slog.Level) (*slog.Logger, func(), error) {
	return SetupWriter(os.Stderr, logFile, level)
}

// SetupWriter is Setup with the console stream written to the given writer
// instead of os.Stderr.
func SetupWriter(stderr io.Writer, logFile string, level slog.Level) (*slog.Logger, func(), error) {
	cleanup := func() {}
	w := stderr

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(stderr, f)
		cleanup = func() {
			_ = f.Close()
		}
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), cleanup, nil
}

// WithRun returns a logger tagged with a fresh run id.
func WithRun(logger *slog.Logger) *slog.Logger {
	return logger.With("run_id", uuid.NewString())
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (valid: debug, info, warn, error)", s)
	}
}
