package craft

import (
	"io"
	"log/slog"
	"time"
)

// UptimeKey is the attribute key that replaces the wall-clock timestamp
// in records produced by NewLogHandler.
const UptimeKey = "uptime"

// NewLogHandler returns a text handler that stamps every record with the
// time elapsed since the handler was created instead of the wall clock.
// The level is always printed.
func NewLogHandler(w io.Writer, level slog.Leveler) slog.Handler {
	start := time.Now()
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Duration(UptimeKey, time.Since(start).Round(time.Microsecond))
			}
			return a
		},
	})
}
