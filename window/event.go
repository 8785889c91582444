package window

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// EventKind identifies the events a Window reports.
type EventKind uint8

const (
	// EventClose is a close request from the window system.
	EventClose EventKind = iota + 1

	// EventResize reports a new framebuffer size in physical pixels.
	EventResize

	// EventScaleFactor reports a DPI change. Width and Height carry the
	// framebuffer size after the change.
	EventScaleFactor

	// EventKey is a keyboard key transition.
	EventKey
)

func (k EventKind) String() string {
	switch k {
	case EventClose:
		return "close"
	case EventResize:
		return "resize"
	case EventScaleFactor:
		return "scale factor"
	case EventKey:
		return "key"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Action is the state transition of a key.
type Action uint8

const (
	Release Action = iota
	Press
	Repeat
)

// Event is one window event. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind

	// Width and Height are set for EventResize and EventScaleFactor.
	Width, Height int

	// Scale is set for EventScaleFactor.
	Scale float64

	// Key, Mods and Action are set for EventKey.
	Key    gpucontext.Key
	Mods   gpucontext.Modifiers
	Action Action
}

// Pressed reports whether e is a press of key. Releases and repeats do not
// count.
func (e Event) Pressed(key gpucontext.Key) bool {
	return e.Kind == EventKey && e.Action == Press && e.Key == key
}
