// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// ParseLevel maps LOG_LEVEL values to slog levels. Unknown values mean INFO.
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(logLevel)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to out in the given format.
func New(out io.Writer, logLevel, format string) *slog.Logger {
	level := ParseLevel(logLevel)
	if strings.EqualFold(format, FormatPretty) {
		return slog.New(NewPrettyHandler(out, level))
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

// Setup installs the default logger on stdout.
func Setup(logLevel, format string) {
	slog.SetDefault(New(os.Stdout, logLevel, format))
}

// Err is the attribute used for errors throughout the code base.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
