package obs

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger returns the gateway logger: colorized debug output for local
// development, JSON at info level everywhere else. Every record carries the
// service name so gateway lines stay filterable next to backend logs.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler
	if env == "dev" || env == "local" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	}
	return slog.New(handler).With("service", "bizbay-gateway")
}
