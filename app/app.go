// Package app drives a window and a renderer: it dispatches window events,
// then updates and renders once per iteration until the window asks to
// close or Escape is pressed.
package app

import (
	"context"
	"fmt"

	"github.com/gogpu/craft"
	"github.com/gogpu/craft/renderer"
	"github.com/gogpu/craft/window"
	"github.com/gogpu/gpucontext"
)

// Window is the event source. *window.Window satisfies it.
type Window interface {
	Poll() []window.Event
}

// Renderer is what the loop drives. *renderer.Renderer satisfies it.
type Renderer interface {
	Resize(width, height int) error
	Size() (width, height int)
	Input(ev window.Event) bool
	Update()
	Render() error
}

// Loop runs one window with one renderer on the calling goroutine.
type Loop struct {
	win Window
	r   Renderer
}

// New returns a loop over win and r.
func New(win Window, r Renderer) *Loop {
	return &Loop{win: win, r: r}
}

// Run iterates until the window is closed, Escape is pressed, ctx is
// cancelled or rendering fails fatally. Presentation is FIFO, so each
// iteration waits for vsync inside Render.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			craft.Logger().Info("loop cancelled")
			return nil
		default:
		}
		done, err := l.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Step dispatches the pending events, then updates and renders one frame.
// It reports done when the loop should stop.
//
// Render errors follow one policy: a lost surface is reconfigured at the
// current size, running out of memory or losing the device stops the loop
// with the error, anything else skips the frame.
func (l *Loop) Step() (done bool, err error) {
	for _, ev := range l.win.Poll() {
		if l.r.Input(ev) {
			continue
		}
		switch ev.Kind {
		case window.EventClose:
			craft.Logger().Info("close requested")
			return true, nil
		case window.EventKey:
			if ev.Pressed(gpucontext.KeyEscape) {
				craft.Logger().Info("escape pressed")
				return true, nil
			}
		case window.EventResize, window.EventScaleFactor:
			if err := l.r.Resize(ev.Width, ev.Height); err != nil {
				return true, fmt.Errorf("app: resize: %w", err)
			}
		}
	}

	l.r.Update()
	err = l.r.Render()
	switch kind := renderer.Classify(err); kind {
	case renderer.ErrorNone:
	case renderer.ErrorSurfaceLost:
		w, h := l.r.Size()
		craft.Logger().Warn("surface lost, reconfiguring", "width", w, "height", h)
		if err := l.r.Resize(w, h); err != nil {
			return true, fmt.Errorf("app: reconfigure lost surface: %w", err)
		}
	case renderer.ErrorOutOfMemory, renderer.ErrorFatal:
		craft.Logger().Error("render failed", "kind", kind, "err", err)
		return true, err
	default:
		craft.Logger().Warn("frame skipped", "err", err)
	}
	return false, nil
}
