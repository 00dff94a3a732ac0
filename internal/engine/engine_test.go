package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padmux/padmux/internal/action"
	"github.com/padmux/padmux/internal/binding"
	"github.com/padmux/padmux/internal/emit"
	"github.com/padmux/padmux/internal/gamepad"
	"github.com/padmux/padmux/internal/mode"
	"github.com/padmux/padmux/internal/profile"
)

type fakeSource struct {
	next []gamepad.DeviceSnapshot
}

func (f *fakeSource) Open() error { return nil }
func (f *fakeSource) Poll(now time.Time) ([]gamepad.DeviceSnapshot, error) {
	return f.next, nil
}
func (f *fakeSource) Close() {}

type recordingEmitter struct {
	mu    sync.Mutex
	calls []string
	moves [][2]int
}

func (r *recordingEmitter) record(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
	return nil
}

func (r *recordingEmitter) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recordingEmitter) MoveCursor(dx, dy int) error {
	r.mu.Lock()
	r.moves = append(r.moves, [2]int{dx, dy})
	r.mu.Unlock()
	return r.record("move")
}

func (r *recordingEmitter) movedBy() [][2]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][2]int, len(r.moves))
	copy(out, r.moves)
	return out
}
func (r *recordingEmitter) ButtonDown(b emit.MouseButton) error {
	return r.record("down " + b.String())
}
func (r *recordingEmitter) ButtonUp(b emit.MouseButton) error {
	return r.record("up " + b.String())
}
func (r *recordingEmitter) KeyDown(k string) error { return r.record("keydown " + k) }
func (r *recordingEmitter) KeyUp(k string) error   { return r.record("keyup " + k) }
func (r *recordingEmitter) Scroll(v, h int) error  { return r.record("scroll") }
func (r *recordingEmitter) Close() error           { return nil }

func newTestEngine(t *testing.T) (*Engine, *fakeSource, *recordingEmitter) {
	t.Helper()
	src := &fakeSource{}
	em := &recordingEmitter{}
	e := New(src, em, binding.Defaults(), profile.NewStore(""), profile.Default(), DefaultTickRate)
	return e, src, em
}

func TestTapDispatchesBoundClick(t *testing.T) {
	e, src, em := newTestEngine(t)

	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0)

	src.next = []gamepad.DeviceSnapshot{snap(0, gamepad.ButtonSouth)}
	e.step(t0.Add(16 * time.Millisecond))

	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0.Add(64 * time.Millisecond))

	// Tap stays pending until the double-tap window lapses.
	assert.Empty(t, em.recorded())
	e.step(t0.Add(500 * time.Millisecond))
	assert.Equal(t, []string{"down left", "up left"}, em.recorded())
}

func TestChordSwitchesMode(t *testing.T) {
	e, src, _ := newTestEngine(t)

	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0)

	src.next = []gamepad.DeviceSnapshot{snap(0, gamepad.ButtonRB, gamepad.ButtonNorth)}
	e.step(t0.Add(16 * time.Millisecond))
	assert.Equal(t, mode.Normal, e.Mode())

	// Chord resolves once its window lapses with both still held.
	e.step(t0.Add(150 * time.Millisecond))
	assert.Equal(t, mode.Motion, e.Mode())

	// Releasing the chord members produces no further gestures.
	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0.Add(180 * time.Millisecond))
	e.step(t0.Add(700 * time.Millisecond))
	assert.Equal(t, mode.Motion, e.Mode())
}

func TestMotionModeMovesCursor(t *testing.T) {
	e, src, em := newTestEngine(t)
	forceMode(t, e, mode.Motion)

	s := snap(0)
	s.Axes[gamepad.AxisLeftX] = 1.0
	src.next = []gamepad.DeviceSnapshot{s}
	e.step(t0)
	e.step(t0.Add(16 * time.Millisecond))

	assert.Contains(t, em.recorded(), "move")
}

func TestMotionModeCursorTracksStickDirection(t *testing.T) {
	e, src, em := newTestEngine(t)
	forceMode(t, e, mode.Motion)

	s := snap(0)
	s.Axes[gamepad.AxisLeftY] = 1.0 // stick pushed up
	src.next = []gamepad.DeviceSnapshot{s}
	e.step(t0)
	e.step(t0.Add(16 * time.Millisecond))

	moves := em.movedBy()
	require.NotEmpty(t, moves)
	assert.Zero(t, moves[0][0])
	assert.Negative(t, moves[0][1], "stick up moves the cursor up")
}

func TestNormalModeIgnoresSticks(t *testing.T) {
	e, src, em := newTestEngine(t)

	s := snap(0)
	s.Axes[gamepad.AxisLeftX] = 1.0
	src.next = []gamepad.DeviceSnapshot{s}
	e.step(t0)
	e.step(t0.Add(16 * time.Millisecond))

	assert.Empty(t, em.recorded())
}

func TestHoldDragReleasesOnFallingEdge(t *testing.T) {
	e, src, em := newTestEngine(t)
	forceMode(t, e, mode.Motion)

	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0)

	src.next = []gamepad.DeviceSnapshot{snap(0, gamepad.ButtonLT)}
	e.step(t0.Add(16 * time.Millisecond))
	assert.Empty(t, em.recorded())

	// Hold threshold crossed: drag begins.
	e.step(t0.Add(300 * time.Millisecond))
	assert.Equal(t, []string{"down left"}, em.recorded())

	// Release ends the drag.
	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0.Add(330 * time.Millisecond))
	assert.Equal(t, []string{"down left", "up left"}, em.recorded())
}

func TestDisconnectReleasesActiveHold(t *testing.T) {
	e, src, em := newTestEngine(t)
	forceMode(t, e, mode.Motion)

	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0)
	src.next = []gamepad.DeviceSnapshot{snap(0, gamepad.ButtonLT)}
	e.step(t0.Add(16 * time.Millisecond))
	e.step(t0.Add(300 * time.Millisecond))
	require.Equal(t, []string{"down left"}, em.recorded())

	src.next = nil
	e.step(t0.Add(320 * time.Millisecond))
	assert.Equal(t, []string{"down left", "up left"}, em.recorded())

	snaps := e.Snapshots()
	require.Len(t, snaps, 1)
	assert.False(t, snaps[0].Connected)
}

func TestModeSwitchCancelsDeferredTap(t *testing.T) {
	e, src, em := newTestEngine(t)

	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0)

	// West tap begins and ends under NORMAL, where it means right click.
	src.next = []gamepad.DeviceSnapshot{snap(0, gamepad.ButtonWest)}
	e.step(t0.Add(16 * time.Millisecond))
	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0.Add(48 * time.Millisecond))

	// LB+North switches to HOTKEY inside the tap's double-tap window.
	src.next = []gamepad.DeviceSnapshot{snap(0, gamepad.ButtonLB, gamepad.ButtonNorth)}
	e.step(t0.Add(64 * time.Millisecond))
	e.step(t0.Add(200 * time.Millisecond))
	require.Equal(t, mode.Hotkey, e.Mode())

	// West means paste in HOTKEY; the stale tap must not fire as either.
	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0.Add(230 * time.Millisecond))
	e.step(t0.Add(600 * time.Millisecond))
	assert.Empty(t, em.recorded())
}

func TestStaleDisconnectedDevicesPruned(t *testing.T) {
	e, src, _ := newTestEngine(t)

	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0)
	src.next = nil
	e.step(t0.Add(16 * time.Millisecond))

	// Stays visible for a grace period after unplug.
	snaps := e.Snapshots()
	require.Len(t, snaps, 1)
	assert.False(t, snaps[0].Connected)

	e.step(t0.Add(16*time.Millisecond + disconnectRetention))
	assert.Empty(t, e.Snapshots())
}

func TestReplugCyclesDoNotGrowDeviceTable(t *testing.T) {
	e, src, _ := newTestEngine(t)

	// Reconnects get fresh indexes, so each cycle adds a new entry.
	now := t0
	for i := 0; i < 10; i++ {
		src.next = []gamepad.DeviceSnapshot{snap(i)}
		e.step(now)
		now = now.Add(16 * time.Millisecond)
		src.next = nil
		e.step(now)
		now = now.Add(disconnectRetention + time.Second)
	}
	e.step(now)
	assert.Empty(t, e.Snapshots())
}

func TestRepeatingHoldFiresEveryTick(t *testing.T) {
	reg := binding.NewRegistry()
	require.NoError(t, reg.Register(binding.Binding{
		Pattern: binding.Hold(gamepad.ButtonDpadUp),
		Action:  action.Scroll(-1, 0),
		Mode:    mode.Normal,
		Repeat:  true,
	}))
	src := &fakeSource{}
	em := &recordingEmitter{}
	e := New(src, em, reg, profile.NewStore(""), profile.Default(), DefaultTickRate)

	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0)
	src.next = []gamepad.DeviceSnapshot{snap(0, gamepad.ButtonDpadUp)}
	e.step(t0.Add(16 * time.Millisecond))

	e.step(t0.Add(300 * time.Millisecond))
	e.step(t0.Add(316 * time.Millisecond))
	e.step(t0.Add(332 * time.Millisecond))
	assert.Equal(t, []string{"scroll", "scroll", "scroll"}, em.recorded())

	// Release stops the repeat.
	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0.Add(348 * time.Millisecond))
	e.step(t0.Add(364 * time.Millisecond))
	assert.Equal(t, []string{"scroll", "scroll", "scroll"}, em.recorded())
}

func TestPausedEngineEmitsNothing(t *testing.T) {
	e, src, em := newTestEngine(t)
	e.SetPaused(true)

	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0)
	src.next = []gamepad.DeviceSnapshot{snap(0, gamepad.ButtonSouth)}
	e.step(t0.Add(16 * time.Millisecond))
	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0.Add(64 * time.Millisecond))
	e.step(t0.Add(500 * time.Millisecond))

	assert.Empty(t, em.recorded())
	assert.True(t, e.Paused())
}

func TestSwitchProfile(t *testing.T) {
	e, _, _ := newTestEngine(t)
	assert.Equal(t, profile.DefaultName, e.ProfileName())
	assert.Error(t, e.SwitchProfile("missing"))
	assert.Equal(t, profile.DefaultName, e.ProfileName())
}

func TestUpdatesPublished(t *testing.T) {
	e, src, _ := newTestEngine(t)
	src.next = []gamepad.DeviceSnapshot{snap(0)}
	e.step(t0)

	select {
	case u := <-e.Updates():
		assert.Equal(t, uint64(1), u.Seq)
		assert.Equal(t, "NORMAL", u.Mode)
		require.Len(t, u.Devices, 1)
	default:
		t.Fatal("no update published")
	}
}

// forceMode drives the engine into a mode through its own switch path.
func forceMode(t *testing.T, e *Engine, m mode.Mode) {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	require.True(t, e.modes.Switch(m, t0.Add(-time.Second)))
}
