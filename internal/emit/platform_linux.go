package emit

import "log"

// NewPlatform returns the best emitter for this system: the uinput
// virtual device when available, otherwise the xdotool fallback.
func NewPlatform() (Emitter, error) {
	e, err := NewUinputEmitter()
	if err == nil {
		return e, nil
	}
	log.Printf("uinput unavailable (%v), falling back to xdotool", err)
	return NewCommandEmitter()
}
