// Package gesture classifies button edges into discrete gestures using
// timing windows. All deadlines are evaluated against the tick timestamp
// handed to Update, never wall-clock timers, so the classifier is
// deterministic and never blocks the polling loop.
package gesture

import (
	"fmt"
	"strings"
	"time"

	"github.com/padmux/padmux/internal/gamepad"
)

// Kind is the classification of a completed gesture.
type Kind int

const (
	KindTap Kind = iota
	KindHold
	KindDoubleTap
	KindChord
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindTap:
		return "tap"
	case KindHold:
		return "hold"
	case KindDoubleTap:
		return "double_tap"
	case KindChord:
		return "chord"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// EdgeKey identifies one tracked button's timing state across ticks.
type EdgeKey struct {
	Device int
	Button gamepad.Button
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("%d/%s", k.Device, k.Button)
}

// Edge is a single press or release transition observed between two ticks.
type Edge struct {
	Key    EdgeKey
	Rising bool
	Time   time.Time
}

// Event is a classified gesture. Events are transient: the resolver
// consumes them within the tick that produced them.
type Event struct {
	Kind Kind
	Keys []EdgeKey // one key for Tap/Hold/DoubleTap, the set for Chord, [first second] for Sequence
	Time time.Time
}

// Device returns the index of the device the gesture originated from.
func (e Event) Device() int {
	if len(e.Keys) == 0 {
		return -1
	}
	return e.Keys[0].Device
}

// Buttons returns the canonical buttons involved in the gesture.
func (e Event) Buttons() []gamepad.Button {
	out := make([]gamepad.Button, len(e.Keys))
	for i, k := range e.Keys {
		out[i] = k.Button
	}
	return out
}

func (e Event) String() string {
	parts := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		parts[i] = k.String()
	}
	return fmt.Sprintf("%s(%s)", e.Kind, strings.Join(parts, "+"))
}

// Config holds the classification timing windows.
type Config struct {
	TapThreshold    time.Duration // press shorter than this is a Tap
	DoubleTapWindow time.Duration // release-to-press gap completing a DoubleTap
	ChordWindow     time.Duration // simultaneity window for Chord
	SequenceTimeout time.Duration // first-event-to-second-press window for Sequence
}

// DefaultConfig mirrors the stock timing thresholds.
func DefaultConfig() Config {
	return Config{
		TapThreshold:    200 * time.Millisecond,
		DoubleTapWindow: 300 * time.Millisecond,
		ChordWindow:     100 * time.Millisecond,
		SequenceTimeout: 2 * time.Second,
	}
}
