// Package logger builds the structured logger used by cmd/telnet-echo.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup builds a tint-backed slog.Logger writing to stdout. A blank level
// falls back to info.
func Setup(level string, quiet bool) *slog.Logger {
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		NoColor: !isatty.IsTerminal(os.Stdout.Fd()),
		Level:   parseLogLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
