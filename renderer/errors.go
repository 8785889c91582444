package renderer

import (
	"errors"

	"github.com/gogpu/wgpu"
)

// Renderer errors.
var (
	// ErrNoAdapter is returned when no adapter compatible with the surface exists.
	ErrNoAdapter = errors.New("renderer: no compatible adapter")

	// ErrNoSurfaceFormat is returned when the adapter reports no usable
	// surface format.
	ErrNoSurfaceFormat = errors.New("renderer: surface has no supported format")

	// ErrClosed is returned when rendering after Close.
	ErrClosed = errors.New("renderer: closed")
)

// ErrorKind tells the caller how to react to a Render error.
type ErrorKind uint8

const (
	// ErrorNone means the frame was presented.
	ErrorNone ErrorKind = iota

	// ErrorSurfaceLost means the surface must be reconfigured with the
	// last known size before the next frame.
	ErrorSurfaceLost

	// ErrorOutOfMemory means the device cannot continue; exit.
	ErrorOutOfMemory

	// ErrorTransient means this frame was skipped and the next one is
	// expected to succeed (timeout, outdated surface).
	ErrorTransient

	// ErrorFatal means the device is gone.
	ErrorFatal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorSurfaceLost:
		return "surface lost"
	case ErrorOutOfMemory:
		return "out of memory"
	case ErrorTransient:
		return "transient"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by Render to the reaction it requires.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorNone
	case errors.Is(err, wgpu.ErrSurfaceLost):
		return ErrorSurfaceLost
	case errors.Is(err, wgpu.ErrOutOfMemory):
		return ErrorOutOfMemory
	case errors.Is(err, wgpu.ErrDeviceLost), errors.Is(err, wgpu.ErrReleased), errors.Is(err, ErrClosed):
		return ErrorFatal
	default:
		return ErrorTransient
	}
}
