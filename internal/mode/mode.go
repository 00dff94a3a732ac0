// Package mode implements the modal layer: one process-wide operating
// mode gating which bindings are active, switched only by designated
// chords and alive for the engine's entire lifetime.
package mode

import (
	"log"
	"time"
)

// Mode is the mutually-exclusive operating context.
type Mode int

const (
	// Normal is the initial mode: navigation, app control, system keys.
	Normal Mode = iota
	// Motion is the precision cursor control mode.
	Motion
	// Hotkey is the key combination and leader key mode.
	Hotkey

	modeCount
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Motion:
		return "MOTION"
	case Hotkey:
		return "HOTKEY"
	default:
		return "UNKNOWN"
	}
}

// Modes lists every mode, in declaration order.
func Modes() []Mode {
	return []Mode{Normal, Motion, Hotkey}
}

// switchDebounce is the minimum gap between mode switches. Two devices
// firing mode chords in the same tick resolve first-chord-wins: the
// second switch lands inside the debounce and is rejected.
const switchDebounce = 50 * time.Millisecond

// Manager tracks the active mode. It is confined to the engine loop;
// readers get the value through the engine's snapshot path.
type Manager struct {
	current     Mode
	previous    Mode
	activatedAt time.Time
	lastSwitch  time.Time
}

// NewManager returns a manager starting in Normal.
func NewManager() *Manager {
	return &Manager{current: Normal, previous: Normal}
}

// Current returns the active mode.
func (m *Manager) Current() Mode {
	return m.current
}

// Previous returns the mode active before the last switch.
func (m *Manager) Previous() Mode {
	return m.previous
}

// Switch moves to a new mode. Switching to the current mode is an
// idempotent no-op, and switches inside the debounce window are
// rejected. Reports whether the mode changed.
func (m *Manager) Switch(to Mode, now time.Time) bool {
	if to == m.current {
		return false
	}
	if !m.lastSwitch.IsZero() && now.Sub(m.lastSwitch) < switchDebounce {
		return false
	}

	log.Printf("Mode switch: %s -> %s", m.current, to)
	m.previous = m.current
	m.current = to
	m.activatedAt = now
	m.lastSwitch = now
	return true
}

// Reset forces the manager back to Normal.
func (m *Manager) Reset(now time.Time) {
	m.Switch(Normal, now)
}

// TimeIn returns how long the current mode has been active.
func (m *Manager) TimeIn(now time.Time) time.Duration {
	if m.activatedAt.IsZero() {
		return 0
	}
	return now.Sub(m.activatedAt)
}
