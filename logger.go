package craft

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/wgpu"
)

// nopHandler drops every record. Enabled is always false, so disabled
// call sites never build their attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// silent is installed until cmd/craft (or an embedding program) calls
// SetLogger.
var silent = slog.New(nopHandler{})

var active atomic.Pointer[slog.Logger]

func init() {
	active.Store(silent)
}

// SetLogger installs l for the window, renderer, loop and GPU resource code,
// and for wgpu underneath them. A nil l switches logging off again.
//
// cmd/craft calls it once at startup with a NewLogHandler logger whose level
// comes from CRAFT_LOG_LEVEL. What each level carries:
//   - Debug: GPU resources created, surface resizes, presented frames
//   - Info: window opened, adapter chosen, loop exit with frame count
//   - Warn: a skipped frame or a lost surface being reconfigured
//   - Error: the failure that ends the process
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	active.Store(l)
	wgpu.SetLogger(l)
}

// Logger returns the logger installed by SetLogger. It is safe to call from
// any goroutine.
func Logger() *slog.Logger {
	return active.Load()
}
