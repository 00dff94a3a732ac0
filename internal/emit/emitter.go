// Package emit defines the OS input emitter capability set and its
// platform implementations. Emitters are the engine's only side-effect
// boundary: every call is bounded and returns an explicit error instead
// of stalling or crashing the polling loop.
package emit

import "errors"

// MouseButton selects a pointer button for click emission.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

var (
	// ErrUnsupported reports a capability the platform emitter cannot
	// provide. The action is dropped, never retried.
	ErrUnsupported = errors.New("emit: capability not supported on this platform")

	// ErrUnknownKey reports a key name with no platform translation.
	ErrUnknownKey = errors.New("emit: unknown key name")
)

// Emitter is the OS input capability set: cursor movement, button
// up/down, key up/down, and scroll. Implementations must complete well
// under a 16 ms tick; anything that could stall indefinitely has to
// fail with an error instead.
type Emitter interface {
	MoveCursor(dx, dy int) error
	ButtonDown(b MouseButton) error
	ButtonUp(b MouseButton) error
	KeyDown(key string) error
	KeyUp(key string) error
	Scroll(vertical, horizontal int) error
	Close() error
}
