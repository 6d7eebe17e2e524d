package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the service logger: JSON at info level in
// production, text at debug level with source locations in
// development. Every record carries a service attr so log lines stay
// attributable once aggregated.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: env == "development",
	}

	var handler slog.Handler
	if env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(slog.String("service", "dermalyze"))
}
