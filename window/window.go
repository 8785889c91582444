// Package window opens a native window through GLFW and reports its events
// in a form the renderer and the application loop consume.
//
// GLFW must be driven from the main OS thread. The package locks the main
// goroutine to it on init, so New, Poll and Close must be called from main.
package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/craft"
	"github.com/gogpu/gpucontext"
)

// ErrClosed is returned by SurfaceHandles after Close.
var ErrClosed = errors.New("window: closed")

func init() {
	runtime.LockOSThread()
}

// Window is a GLFW window without a client API; a GPU surface is created
// for it from its native handles.
type Window struct {
	win     *glfw.Window
	pending []Event
}

var _ gpucontext.WindowProvider = (*Window)(nil)

// New initializes GLFW and opens a resizable window.
func New(title string, width, height int) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: init glfw: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: create: %w", err)
	}

	w := &Window{win: win}
	win.SetCloseCallback(func(*glfw.Window) {
		w.push(Event{Kind: EventClose})
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(Event{Kind: EventResize, Width: width, Height: height})
	})
	win.SetContentScaleCallback(func(gw *glfw.Window, x, _ float32) {
		fw, fh := gw.GetFramebufferSize()
		w.push(Event{Kind: EventScaleFactor, Width: fw, Height: fh, Scale: float64(x)})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		w.push(keyEvent(key, action, mods))
	})

	fw, fh := win.GetFramebufferSize()
	craft.Logger().Info("window opened", "title", title, "width", fw, "height", fh)
	return w, nil
}

func (w *Window) push(ev Event) {
	w.pending = append(w.pending, ev)
}

// Poll processes pending window system events and returns them in arrival
// order. It does not block.
func (w *Window) Poll() []Event {
	if w.win == nil {
		return nil
	}
	glfw.PollEvents()
	events := w.pending
	w.pending = nil
	return events
}

// FramebufferSize returns the drawable size in physical pixels.
func (w *Window) FramebufferSize() (width, height int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetFramebufferSize()
}

// Size returns the window size in logical screen coordinates. Multiply by
// ScaleFactor for pixels, or use FramebufferSize.
func (w *Window) Size() (width, height int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetSize()
}

// ScaleFactor returns the horizontal content scale.
func (w *Window) ScaleFactor() float64 {
	if w.win == nil {
		return 1
	}
	x, _ := w.win.GetContentScale()
	return float64(x)
}

// RequestRedraw wakes a blocked event wait. Poll never blocks, so this only
// matters to callers waiting on GLFW directly.
func (w *Window) RequestRedraw() {
	glfw.PostEmptyEvent()
}

// SurfaceHandles returns the platform display and window handles for
// surface creation.
func (w *Window) SurfaceHandles() (display, window uintptr, err error) {
	if w.win == nil {
		return 0, 0, ErrClosed
	}
	return nativeHandles(w.win)
}

// Close destroys the window and terminates GLFW. It is safe to call more
// than once.
func (w *Window) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
}
