// Package binding maps classified gestures to actions through per-mode
// binding tables with a two-tier lookup: context-scoped bindings first,
// then mode-wide ones.
package binding

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/padmux/padmux/internal/action"
	"github.com/padmux/padmux/internal/gamepad"
	"github.com/padmux/padmux/internal/gesture"
	"github.com/padmux/padmux/internal/mode"
)

// DefaultPriority is assigned when a binding does not set one.
const DefaultPriority = 50

// Pattern describes the gesture shape a binding matches: the gesture
// kind plus the exact button set involved, regardless of device.
type Pattern struct {
	Kind    gesture.Kind
	Buttons []gamepad.Button
}

// Tap matches a tap of one button.
func Tap(b gamepad.Button) Pattern {
	return Pattern{Kind: gesture.KindTap, Buttons: []gamepad.Button{b}}
}

// Hold matches a hold of one button.
func Hold(b gamepad.Button) Pattern {
	return Pattern{Kind: gesture.KindHold, Buttons: []gamepad.Button{b}}
}

// DoubleTap matches a double-tap of one button.
func DoubleTap(b gamepad.Button) Pattern {
	return Pattern{Kind: gesture.KindDoubleTap, Buttons: []gamepad.Button{b}}
}

// Chord matches a simultaneous press of two or more buttons.
func Chord(buttons ...gamepad.Button) Pattern {
	return Pattern{Kind: gesture.KindChord, Buttons: buttons}
}

// Sequence matches an ordered two-button sequence.
func Sequence(first, second gamepad.Button) Pattern {
	return Pattern{Kind: gesture.KindSequence, Buttons: []gamepad.Button{first, second}}
}

// key returns a canonical identity for duplicate detection and event
// matching. Chord button order is irrelevant; sequence order matters.
func (p Pattern) key() string {
	buttons := make([]gamepad.Button, len(p.Buttons))
	copy(buttons, p.Buttons)
	if p.Kind == gesture.KindChord {
		sort.Slice(buttons, func(i, j int) bool { return buttons[i] < buttons[j] })
	}
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		parts[i] = b.String()
	}
	return p.Kind.String() + ":" + strings.Join(parts, "+")
}

func (p Pattern) String() string {
	return p.key()
}

// eventKey canonicalizes a gesture event the same way Pattern.key does.
func eventKey(ev gesture.Event) string {
	buttons := ev.Buttons()
	if ev.Kind == gesture.KindChord {
		sort.Slice(buttons, func(i, j int) bool { return buttons[i] < buttons[j] })
	}
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		parts[i] = b.String()
	}
	return ev.Kind.String() + ":" + strings.Join(parts, "+")
}

// Binding ties a pattern to an action within one mode. Context is an
// optional application scope; empty means mode-wide.
type Binding struct {
	Pattern     Pattern
	Action      action.Action
	Mode        mode.Mode
	Context     string
	Priority    int
	Description string

	// Repeat re-fires a Hold binding's action every tick while the
	// button stays down, instead of once at the threshold crossing.
	Repeat bool
}

// ErrBinding reports a binding rejected at registration.
var ErrBinding = errors.New("binding: invalid")

func (b Binding) validate() error {
	switch b.Pattern.Kind {
	case gesture.KindTap, gesture.KindHold, gesture.KindDoubleTap:
		if len(b.Pattern.Buttons) != 1 {
			return fmt.Errorf("%w: %s needs exactly one button", ErrBinding, b.Pattern.Kind)
		}
	case gesture.KindChord:
		if len(b.Pattern.Buttons) < 2 {
			return fmt.Errorf("%w: chord needs at least two buttons", ErrBinding)
		}
	case gesture.KindSequence:
		if len(b.Pattern.Buttons) != 2 {
			return fmt.Errorf("%w: sequence needs exactly two buttons", ErrBinding)
		}
		if b.Pattern.Buttons[0] == b.Pattern.Buttons[1] {
			return fmt.Errorf("%w: sequence buttons must differ", ErrBinding)
		}
	default:
		return fmt.Errorf("%w: unknown gesture kind %d", ErrBinding, b.Pattern.Kind)
	}
	for _, btn := range b.Pattern.Buttons {
		if btn < 0 || btn >= gamepad.ButtonCount {
			return fmt.Errorf("%w: unknown button %d", ErrBinding, btn)
		}
	}
	if err := b.Action.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBinding, err)
	}
	return nil
}
