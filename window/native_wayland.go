//go:build (linux || freebsd || netbsd || openbsd) && wayland

package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns the wl_display* and the window's wl_surface*.
func nativeHandles(w *glfw.Window) (uintptr, uintptr, error) {
	display := uintptr(unsafe.Pointer(glfw.GetWaylandDisplay()))
	return display, uintptr(unsafe.Pointer(w.GetWaylandWindow())), nil
}
