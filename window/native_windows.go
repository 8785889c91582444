//go:build windows

package window

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns a zero HINSTANCE, which selects the current module,
// and the window's HWND.
func nativeHandles(w *glfw.Window) (uintptr, uintptr, error) {
	return 0, uintptr(unsafe.Pointer(w.GetWin32Window())), nil
}
