package binding

import (
	"github.com/padmux/padmux/internal/action"
	"github.com/padmux/padmux/internal/emit"
	"github.com/padmux/padmux/internal/gamepad"
	"github.com/padmux/padmux/internal/mode"
)

// Defaults returns the built-in binding tables. Profiles layer their
// own bindings on top through the same registry.
func Defaults() *Registry {
	r := NewRegistry()

	reg := func(m mode.Mode, p Pattern, a action.Action, desc string) {
		r.MustRegister(Binding{Pattern: p, Action: a, Mode: m, Description: desc})
	}

	// Mode switch chords. Each non-Normal mode binds its entry chord
	// back to Normal, so the same chord toggles the mode.
	reg(mode.Normal, Chord(gamepad.ButtonRB, gamepad.ButtonNorth),
		action.SwitchMode(mode.Motion), "enter motion mode")
	reg(mode.Normal, Chord(gamepad.ButtonLB, gamepad.ButtonNorth),
		action.SwitchMode(mode.Hotkey), "enter hotkey mode")
	reg(mode.Motion, Chord(gamepad.ButtonRB, gamepad.ButtonNorth),
		action.SwitchMode(mode.Normal), "back to normal mode")
	reg(mode.Hotkey, Chord(gamepad.ButtonLB, gamepad.ButtonNorth),
		action.SwitchMode(mode.Normal), "back to normal mode")

	// Normal: navigation and system control.
	reg(mode.Normal, Tap(gamepad.ButtonSouth), action.Click(emit.MouseLeft), "left click")
	reg(mode.Normal, Tap(gamepad.ButtonWest), action.Click(emit.MouseRight), "right click")
	reg(mode.Normal, Tap(gamepad.ButtonEast), action.KeyTap("escape"), "escape")
	reg(mode.Normal, Tap(gamepad.ButtonLT), action.Click(emit.MouseLeft), "left click")
	reg(mode.Normal, Tap(gamepad.ButtonRT), action.Click(emit.MouseRight), "right click")
	reg(mode.Normal, Tap(gamepad.ButtonDpadUp), action.KeyTap("volumeup"), "volume up")
	reg(mode.Normal, Tap(gamepad.ButtonDpadDown), action.KeyTap("volumedown"), "volume down")
	reg(mode.Normal, Tap(gamepad.ButtonDpadLeft), action.KeyTap("brightnessdown"), "brightness down")
	reg(mode.Normal, Tap(gamepad.ButtonDpadRight), action.KeyTap("brightnessup"), "brightness up")
	reg(mode.Normal, Hold(gamepad.ButtonLB), action.KeyCombo("alt", "tab"), "app switcher")
	reg(mode.Normal, Tap(gamepad.ButtonL3), action.KeyTap("printscreen"), "screenshot")
	reg(mode.Normal, Tap(gamepad.ButtonStart), action.KeyTap("playpause"), "play/pause")
	reg(mode.Normal, Tap(gamepad.ButtonSelect), action.KeyTap("mute"), "mute")

	// Motion: clicks, drag and discrete scroll around the analog
	// cursor and scroll handled directly by the engine.
	reg(mode.Motion, Tap(gamepad.ButtonSouth), action.Click(emit.MouseLeft), "left click")
	reg(mode.Motion, Tap(gamepad.ButtonWest), action.Click(emit.MouseRight), "right click")
	reg(mode.Motion, Tap(gamepad.ButtonEast), action.DoubleClick(emit.MouseLeft), "double click")
	reg(mode.Motion, Hold(gamepad.ButtonLT), action.MouseDown(emit.MouseLeft), "drag")
	reg(mode.Motion, Tap(gamepad.ButtonDpadUp), action.Scroll(-3, 0), "scroll up")
	reg(mode.Motion, Tap(gamepad.ButtonDpadDown), action.Scroll(3, 0), "scroll down")
	reg(mode.Motion, Tap(gamepad.ButtonDpadLeft), action.Scroll(0, -3), "scroll left")
	reg(mode.Motion, Tap(gamepad.ButtonDpadRight), action.Scroll(0, 3), "scroll right")

	// Hotkey: key combinations and launchers.
	reg(mode.Hotkey, Tap(gamepad.ButtonEast), action.KeyTap("escape"), "escape")
	reg(mode.Hotkey, Tap(gamepad.ButtonSouth), action.KeyCombo("ctrl", "c"), "copy")
	reg(mode.Hotkey, Tap(gamepad.ButtonWest), action.KeyCombo("ctrl", "v"), "paste")
	reg(mode.Hotkey, DoubleTap(gamepad.ButtonSouth), action.KeyCombo("ctrl", "z"), "undo")
	reg(mode.Hotkey, Tap(gamepad.ButtonDpadLeft), action.KeyCombo("alt", "left"), "browser back")
	reg(mode.Hotkey, Tap(gamepad.ButtonDpadRight), action.KeyCombo("alt", "right"), "browser forward")
	reg(mode.Hotkey, Tap(gamepad.ButtonDpadUp), action.KeyCombo("ctrl", "t"), "new tab")
	reg(mode.Hotkey, Tap(gamepad.ButtonDpadDown), action.KeyCombo("ctrl", "w"), "close tab")
	reg(mode.Hotkey, Hold(gamepad.ButtonStart), action.LaunchApp("https://duckduckgo.com"), "open browser")
	reg(mode.Hotkey, Sequence(gamepad.ButtonLB, gamepad.ButtonRB), action.KeyCombo("super", "l"), "lock screen")

	return r
}
