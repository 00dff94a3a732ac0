//go:build !linux

package emit

// NewPlatform returns the command emitter; no direct device interface
// exists off Linux.
func NewPlatform() (Emitter, error) {
	return NewCommandEmitter()
}
