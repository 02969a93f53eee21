package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production always logs JSON for the
// collector; elsewhere LOG_FORMAT picks between json and readable text.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	if cfg != nil && (cfg.IsProduction() || cfg.LogFormat == "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
