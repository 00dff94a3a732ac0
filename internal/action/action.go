// Package action defines the closed set of OS effects a binding can
// trigger and the executor that performs them.
package action

import (
	"errors"
	"fmt"
	"strings"

	"github.com/padmux/padmux/internal/emit"
	"github.com/padmux/padmux/internal/mode"
)

// Kind discriminates the action union. Adding a kind means extending
// the executor switch; unknown kinds fail Validate at registration.
type Kind int

const (
	KindNoOp Kind = iota
	KindMouseClick
	KindMouseDown
	KindMouseUp
	KindKeyTap
	KindKeyCombo
	KindScroll
	KindLaunchApp
	KindSwitchMode

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindNoOp:
		return "noop"
	case KindMouseClick:
		return "mouse_click"
	case KindMouseDown:
		return "mouse_down"
	case KindMouseUp:
		return "mouse_up"
	case KindKeyTap:
		return "key_tap"
	case KindKeyCombo:
		return "key_combo"
	case KindScroll:
		return "scroll"
	case KindLaunchApp:
		return "launch_app"
	case KindSwitchMode:
		return "switch_mode"
	default:
		return "unknown"
	}
}

// Action is one executable effect. Only the fields of the active Kind
// are meaningful.
type Action struct {
	Kind Kind

	Button emit.MouseButton // mouse kinds
	Clicks int              // KindMouseClick: 1 or 2

	Key  string   // KindKeyTap
	Keys []string // KindKeyCombo: modifiers first, main key last

	Vertical   int // KindScroll
	Horizontal int

	App string // KindLaunchApp

	Mode mode.Mode // KindSwitchMode
}

// NoOp does nothing.
func NoOp() Action { return Action{Kind: KindNoOp} }

// Click emits a single click of the given button.
func Click(b emit.MouseButton) Action {
	return Action{Kind: KindMouseClick, Button: b, Clicks: 1}
}

// DoubleClick emits two staged clicks of the given button.
func DoubleClick(b emit.MouseButton) Action {
	return Action{Kind: KindMouseClick, Button: b, Clicks: 2}
}

// MouseDown presses and holds a button until a matching MouseUp.
func MouseDown(b emit.MouseButton) Action {
	return Action{Kind: KindMouseDown, Button: b}
}

// MouseUp releases a held button.
func MouseUp(b emit.MouseButton) Action {
	return Action{Kind: KindMouseUp, Button: b}
}

// KeyTap presses and releases one key.
func KeyTap(key string) Action {
	return Action{Kind: KindKeyTap, Key: key}
}

// KeyCombo holds the leading keys as modifiers while tapping the last.
func KeyCombo(keys ...string) Action {
	return Action{Kind: KindKeyCombo, Keys: keys}
}

// Scroll emits discrete wheel steps.
func Scroll(vertical, horizontal int) Action {
	return Action{Kind: KindScroll, Vertical: vertical, Horizontal: horizontal}
}

// LaunchApp opens an application or URL through the platform opener.
func LaunchApp(app string) Action {
	return Action{Kind: KindLaunchApp, App: app}
}

// SwitchMode requests a mode change. The engine intercepts this kind;
// it never reaches the emitter.
func SwitchMode(m mode.Mode) Action {
	return Action{Kind: KindSwitchMode, Mode: m}
}

// ErrInvalidAction reports an action whose fields do not satisfy its
// kind. Surfaced at binding registration, not at dispatch.
var ErrInvalidAction = errors.New("action: invalid")

// Validate checks the fields required by the action's kind.
func (a Action) Validate() error {
	switch a.Kind {
	case KindNoOp, KindMouseDown, KindMouseUp:
		return nil
	case KindMouseClick:
		if a.Clicks < 1 || a.Clicks > 2 {
			return fmt.Errorf("%w: click count %d", ErrInvalidAction, a.Clicks)
		}
		return nil
	case KindKeyTap:
		if a.Key == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidAction)
		}
		return nil
	case KindKeyCombo:
		if len(a.Keys) == 0 {
			return fmt.Errorf("%w: empty combo", ErrInvalidAction)
		}
		for _, k := range a.Keys {
			if k == "" {
				return fmt.Errorf("%w: empty key in combo", ErrInvalidAction)
			}
		}
		return nil
	case KindScroll:
		if a.Vertical == 0 && a.Horizontal == 0 {
			return fmt.Errorf("%w: zero scroll", ErrInvalidAction)
		}
		return nil
	case KindLaunchApp:
		if a.App == "" {
			return fmt.Errorf("%w: empty app", ErrInvalidAction)
		}
		return nil
	case KindSwitchMode:
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidAction, a.Kind)
	}
}

func (a Action) String() string {
	switch a.Kind {
	case KindMouseClick:
		if a.Clicks == 2 {
			return "double_click " + a.Button.String()
		}
		return "click " + a.Button.String()
	case KindMouseDown, KindMouseUp:
		return a.Kind.String() + " " + a.Button.String()
	case KindKeyTap:
		return "key " + a.Key
	case KindKeyCombo:
		return "combo " + strings.Join(a.Keys, "+")
	case KindScroll:
		return fmt.Sprintf("scroll v=%d h=%d", a.Vertical, a.Horizontal)
	case KindLaunchApp:
		return "launch " + a.App
	case KindSwitchMode:
		return "switch_mode " + a.Mode.String()
	default:
		return a.Kind.String()
	}
}

// ReleaseCounterpart returns the action that undoes a press-style
// action when its triggering hold ends, and whether one exists.
func (a Action) ReleaseCounterpart() (Action, bool) {
	switch a.Kind {
	case KindMouseDown:
		return MouseUp(a.Button), true
	default:
		return Action{}, false
	}
}
