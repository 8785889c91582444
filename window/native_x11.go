//go:build (linux || freebsd || netbsd || openbsd) && !wayland

package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns the Xlib Display* and the X11 window id.
func nativeHandles(w *glfw.Window) (uintptr, uintptr, error) {
	display := uintptr(unsafe.Pointer(glfw.GetX11Display()))
	return display, uintptr(w.GetX11Window()), nil
}
