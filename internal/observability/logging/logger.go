// Package logging builds the process logger on log/slog and carries
// request-scoped loggers through contexts.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	// in a handler or use case
//	logging.FromContext(ctx).Info("source created", slog.Int64("id", id))
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Nike1016/selfoss/pkg/config"
)

// NewLogger builds the API logger from LOG_LEVEL (debug, info, warn, error;
// default info) and LOG_FORMAT (json or text; default json), writing to stdout.
func NewLogger() *slog.Logger {
	return New(os.Stdout,
		config.GetEnvString("LOG_FORMAT", "json"),
		config.GetEnvString("LOG_LEVEL", "info"))
}

// New builds a logger writing to w. Any format other than "text" means
// JSON. Debug loggers also record the source position.
func New(w io.Writer, format, level string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl <= slog.LevelDebug}

	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel maps a level name, case-insensitively, to a slog.Level.
// Unknown names mean info.
func ParseLevel(s string) slog.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return slog.LevelInfo
}
