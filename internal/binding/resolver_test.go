package binding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padmux/padmux/internal/action"
	"github.com/padmux/padmux/internal/emit"
	"github.com/padmux/padmux/internal/gamepad"
	"github.com/padmux/padmux/internal/gesture"
	"github.com/padmux/padmux/internal/mode"
)

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func tapEvent(device int, b gamepad.Button) gesture.Event {
	return gesture.Event{
		Kind: gesture.KindTap,
		Keys: []gesture.EdgeKey{{Device: device, Button: b}},
		Time: t0,
	}
}

func chordEvent(device int, buttons ...gamepad.Button) gesture.Event {
	keys := make([]gesture.EdgeKey, len(buttons))
	for i, b := range buttons {
		keys[i] = gesture.EdgeKey{Device: device, Button: b}
	}
	return gesture.Event{Kind: gesture.KindChord, Keys: keys, Time: t0}
}

func TestResolveModeWide(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonSouth),
		Action:  action.Click(emit.MouseLeft),
		Mode:    mode.Normal,
	}))

	a, ok := r.Resolve(mode.Normal, "", tapEvent(0, gamepad.ButtonSouth))
	require.True(t, ok)
	assert.Equal(t, action.Click(emit.MouseLeft), a)
}

func TestResolveIsModeScoped(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonSouth),
		Action:  action.Click(emit.MouseLeft),
		Mode:    mode.Normal,
	}))

	_, ok := r.Resolve(mode.Hotkey, "", tapEvent(0, gamepad.ButtonSouth))
	assert.False(t, ok)
}

func TestUnboundGestureIsNoOp(t *testing.T) {
	r := NewRegistry()
	a, ok := r.Resolve(mode.Normal, "", tapEvent(0, gamepad.ButtonGuide))
	assert.False(t, ok)
	assert.Equal(t, action.NoOp(), a)
}

func TestContextTierWins(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Binding{
		Pattern:  Tap(gamepad.ButtonSouth),
		Action:   action.Click(emit.MouseLeft),
		Mode:     mode.Normal,
		Priority: 100,
	}))
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonSouth),
		Action:  action.KeyTap("space"),
		Mode:    mode.Normal,
		Context: "video-player",
	}))

	// Context match beats the higher-priority mode-wide binding.
	a, ok := r.Resolve(mode.Normal, "video-player", tapEvent(0, gamepad.ButtonSouth))
	require.True(t, ok)
	assert.Equal(t, action.KeyTap("space"), a)

	// Outside that context the mode-wide binding applies.
	a, ok = r.Resolve(mode.Normal, "editor", tapEvent(0, gamepad.ButtonSouth))
	require.True(t, ok)
	assert.Equal(t, action.Click(emit.MouseLeft), a)
}

func TestPriorityDescWithinTier(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Binding{
		Pattern:  Tap(gamepad.ButtonEast),
		Action:   action.KeyTap("escape"),
		Mode:     mode.Normal,
		Priority: 10,
	}))
	require.NoError(t, r.Register(Binding{
		Pattern:  Tap(gamepad.ButtonEast),
		Action:   action.KeyTap("tab"),
		Mode:     mode.Normal,
		Priority: 90,
	}))

	a, _ := r.Resolve(mode.Normal, "", tapEvent(0, gamepad.ButtonEast))
	assert.Equal(t, action.KeyTap("tab"), a)
}

func TestRegistrationOrderBreaksTies(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonEast),
		Action:  action.KeyTap("escape"),
		Mode:    mode.Normal,
	}))
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonEast),
		Action:  action.KeyTap("tab"),
		Mode:    mode.Normal,
	}))

	a, _ := r.Resolve(mode.Normal, "", tapEvent(0, gamepad.ButtonEast))
	assert.Equal(t, action.KeyTap("escape"), a)
}

func TestChordMatchesRegardlessOfButtonOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Binding{
		Pattern: Chord(gamepad.ButtonRB, gamepad.ButtonNorth),
		Action:  action.SwitchMode(mode.Motion),
		Mode:    mode.Normal,
	}))

	a, ok := r.Resolve(mode.Normal, "", chordEvent(0, gamepad.ButtonNorth, gamepad.ButtonRB))
	require.True(t, ok)
	assert.Equal(t, action.SwitchMode(mode.Motion), a)
}

func TestResolveIsDeviceAgnostic(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonSouth),
		Action:  action.Click(emit.MouseLeft),
		Mode:    mode.Normal,
	}))

	_, ok := r.Resolve(mode.Normal, "", tapEvent(3, gamepad.ButtonSouth))
	assert.True(t, ok)
}

func TestRegisterRejectsMalformedBindings(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Binding{
		Pattern: Pattern{Kind: gesture.KindChord, Buttons: []gamepad.Button{gamepad.ButtonRB}},
		Action:  action.NoOp(),
		Mode:    mode.Normal,
	})
	assert.ErrorIs(t, err, ErrBinding)

	err = r.Register(Binding{
		Pattern: Sequence(gamepad.ButtonLB, gamepad.ButtonLB),
		Action:  action.NoOp(),
		Mode:    mode.Normal,
	})
	assert.ErrorIs(t, err, ErrBinding)

	err = r.Register(Binding{
		Pattern: Tap(gamepad.ButtonSouth),
		Action:  action.Action{Kind: action.KindKeyTap},
		Mode:    mode.Normal,
	})
	assert.ErrorIs(t, err, ErrBinding)

	err = r.Register(Binding{
		Pattern: Tap(gamepad.Button(99)),
		Action:  action.NoOp(),
		Mode:    mode.Normal,
	})
	assert.ErrorIs(t, err, ErrBinding)
}

func TestDefaultsRegisterCleanly(t *testing.T) {
	r := Defaults()

	// The mode switch chords from every mode they apply in.
	a, ok := r.Resolve(mode.Normal, "", chordEvent(0, gamepad.ButtonRB, gamepad.ButtonNorth))
	require.True(t, ok)
	assert.Equal(t, action.SwitchMode(mode.Motion), a)

	a, ok = r.Resolve(mode.Motion, "", chordEvent(0, gamepad.ButtonRB, gamepad.ButtonNorth))
	require.True(t, ok)
	assert.Equal(t, action.SwitchMode(mode.Normal), a)

	a, ok = r.Resolve(mode.Hotkey, "", chordEvent(0, gamepad.ButtonLB, gamepad.ButtonNorth))
	require.True(t, ok)
	assert.Equal(t, action.SwitchMode(mode.Normal), a)
}

func TestButtonsDiffer(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonSouth),
		Action:  action.Click(emit.MouseLeft),
		Mode:    mode.Normal,
	}))
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonSouth),
		Action:  action.Click(emit.MouseLeft),
		Mode:    mode.Motion,
	}))
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonEast),
		Action:  action.KeyTap("escape"),
		Mode:    mode.Normal,
	}))

	diff := r.ButtonsDiffer(mode.Normal, mode.Motion)
	assert.Equal(t, []gamepad.Button{gamepad.ButtonEast}, diff)
}

func TestButtonsDifferOnRebinding(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonWest),
		Action:  action.Click(emit.MouseRight),
		Mode:    mode.Normal,
	}))
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonWest),
		Action:  action.KeyCombo("ctrl", "v"),
		Mode:    mode.Hotkey,
	}))

	// Same pattern in both modes, different actions: still differs.
	diff := r.ButtonsDiffer(mode.Normal, mode.Hotkey)
	assert.Equal(t, []gamepad.Button{gamepad.ButtonWest}, diff)
}

func TestButtonsDifferIgnoresIdenticalRebinding(t *testing.T) {
	r := NewRegistry()
	for _, m := range []mode.Mode{mode.Normal, mode.Motion} {
		require.NoError(t, r.Register(Binding{
			Pattern: Tap(gamepad.ButtonSouth),
			Action:  action.KeyCombo("ctrl", "c"),
			Mode:    m,
		}))
	}

	assert.Empty(t, r.ButtonsDiffer(mode.Normal, mode.Motion))
}

func TestButtonsDifferTreatsContextEntriesAsDiffering(t *testing.T) {
	r := NewRegistry()
	for _, m := range []mode.Mode{mode.Normal, mode.Motion} {
		require.NoError(t, r.Register(Binding{
			Pattern: Tap(gamepad.ButtonSouth),
			Action:  action.Click(emit.MouseLeft),
			Mode:    m,
		}))
	}
	require.NoError(t, r.Register(Binding{
		Pattern: Tap(gamepad.ButtonSouth),
		Action:  action.KeyTap("space"),
		Mode:    mode.Motion,
		Context: "video-player",
	}))

	diff := r.ButtonsDiffer(mode.Normal, mode.Motion)
	assert.Equal(t, []gamepad.Button{gamepad.ButtonSouth}, diff)
}
