package app

import (
	"log/slog"
	"os"
)

// Output formats accepted by LOG_FORMAT.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// NewLogger builds the process logger. Deployments run JSON output for log
// aggregation; anything else falls back to the text handler. Every record
// carries the service name so api and worker logs stay distinguishable in a
// shared stream.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg != nil && cfg.LogFormat == LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "motoquote"))
}
