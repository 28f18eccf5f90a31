package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// New builds the process logger: JSON on stdout, optionally fanned out to an
// append-only JSON log file. A file that cannot be opened costs the file
// stream, never startup.
func New(service, level, file string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	handlers := []slog.Handler{slog.NewJSONHandler(os.Stdout, opts)}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			handlers = append(handlers, slog.NewJSONHandler(f, opts))
		}
	}
	return slog.New(slogmulti.Fanout(handlers...)).With("service", service)
}

// NewWithWriters builds the same logger shape over custom writers.
func NewWithWriters(service, level string, outputs ...io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	handlers := make([]slog.Handler, 0, len(outputs))
	for _, w := range outputs {
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	}
	return slog.New(slogmulti.Fanout(handlers...)).With("service", service)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
