// Package engine runs the fixed-cadence translation loop tying the
// controller source, classifier, mode machine, bindings and emitter
// together. One goroutine owns the loop; everything shared sits behind
// a single mutex that is never held across an emitter call.
package engine

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/padmux/padmux/internal/action"
	"github.com/padmux/padmux/internal/binding"
	"github.com/padmux/padmux/internal/emit"
	"github.com/padmux/padmux/internal/gamepad"
	"github.com/padmux/padmux/internal/gesture"
	"github.com/padmux/padmux/internal/mode"
	"github.com/padmux/padmux/internal/motion"
	"github.com/padmux/padmux/internal/profile"
)

// DefaultTickRate is the polling cadence in ticks per second.
const DefaultTickRate = 60

// cursorScale converts normalized cursor math output into pixels per
// tick. At full deflection and default profile this is ~10 px/tick.
const cursorScale = 10.0

// scrollStep is the accumulated scroll amount that produces one wheel
// detent.
const scrollStep = 40.0

// pollErrInterval rate-limits source failure logging.
const pollErrInterval = time.Second

// disconnectRetention is how long a disconnected device stays in the
// published table before it is dropped. Reconnects get a fresh index,
// so stale entries would otherwise accumulate across replug cycles.
const disconnectRetention = 5 * time.Second

// Update is one tick's published state, consumed by the hub.
type Update struct {
	Seq     uint64                   `json:"seq"`
	Devices []gamepad.DeviceSnapshot `json:"devices"`
	Mode    string                   `json:"mode"`
	Profile string                   `json:"profile"`
	Paused  bool                     `json:"paused"`
}

// Engine is the translation loop.
type Engine struct {
	source   gamepad.Source
	emitter  emit.Emitter
	exec     *action.Executor
	store    *profile.Store
	registry *binding.Registry
	tick     time.Duration

	mu          sync.Mutex
	prof        profile.Profile
	tracker     *Tracker
	class       *gesture.Classifier
	modes       *mode.Manager
	devices     map[int]gamepad.DeviceSnapshot
	holdRelease map[gesture.EdgeKey]action.Action
	holdRepeat  map[gesture.EdgeKey]action.Action
	paused      bool
	seq         uint64
	lastErrLog  time.Time

	carryX, carryY float64
	carryH, carryV float64

	updates chan Update
}

// New assembles an engine. tickRate <= 0 selects DefaultTickRate.
func New(source gamepad.Source, emitter emit.Emitter, registry *binding.Registry,
	store *profile.Store, prof profile.Profile, tickRate int) *Engine {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Engine{
		source:      source,
		emitter:     emitter,
		exec:        action.NewExecutor(emitter),
		store:       store,
		registry:    registry,
		tick:        time.Second / time.Duration(tickRate),
		prof:        prof,
		tracker:     NewTracker(),
		class:       gesture.NewClassifier(gesture.DefaultConfig()),
		modes:       mode.NewManager(),
		devices:     make(map[int]gamepad.DeviceSnapshot),
		holdRelease: make(map[gesture.EdgeKey]action.Action),
		holdRepeat:  make(map[gesture.EdgeKey]action.Action),
		updates:     make(chan Update, 8),
	}
}

// Updates is the published tick stream. Sends are non-blocking; slow
// consumers miss updates instead of stalling the loop.
func (e *Engine) Updates() <-chan Update {
	return e.updates
}

// Run opens the source and drives the loop until ctx is cancelled.
// SDL wants its event pump on one OS thread, so the loop locks itself.
func (e *Engine) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := e.source.Open(); err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer e.source.Close()
	defer e.exec.Close()

	log.Printf("Engine running at %v per tick", e.tick)
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			e.step(now)
		}
	}
}

// step is one tick: poll, diff, classify, resolve, emit, publish.
func (e *Engine) step(now time.Time) {
	snaps, err := e.source.Poll(now)
	if err != nil {
		e.mu.Lock()
		if now.Sub(e.lastErrLog) >= pollErrInterval {
			e.lastErrLog = now
			log.Printf("Poll failed: %v", err)
		}
		e.mu.Unlock()
		return
	}

	e.mu.Lock()
	acts := e.advance(snaps, now)
	dx, dy, sh, sv := e.motionDeltas()
	update := e.updateLocked()
	e.mu.Unlock()

	// Emission happens outside the lock.
	if dx != 0 || dy != 0 {
		if err := e.emitter.MoveCursor(dx, dy); err != nil {
			e.logEmitErr(err)
		}
	}
	if sh != 0 || sv != 0 {
		if err := e.emitter.Scroll(sv, sh); err != nil {
			e.logEmitErr(err)
		}
	}
	for _, a := range acts {
		e.exec.DoLogged(a)
	}

	select {
	case e.updates <- update:
	default:
	}
}

// advance folds this tick's snapshots into state and returns the
// actions to dispatch. Caller holds the mutex.
func (e *Engine) advance(snaps []gamepad.DeviceSnapshot, now time.Time) []action.Action {
	var acts []action.Action

	for _, s := range snaps {
		e.devices[s.Index] = s
	}
	edges, gone := e.tracker.Update(snaps, now)
	for _, idx := range gone {
		log.Printf("Device %d disconnected", idx)
		e.class.CancelDevice(idx)
		if d, ok := e.devices[idx]; ok {
			d.Connected = false
			d.Timestamp = now
			e.devices[idx] = d
		}
		acts = append(acts, e.releaseHolds(idx)...)
	}
	for idx, d := range e.devices {
		if !d.Connected && now.Sub(d.Timestamp) >= disconnectRetention {
			delete(e.devices, idx)
		}
	}

	if e.paused {
		return acts
	}

	// Falling edges end any hold-backed press actions first, so a drag
	// releases even if classification has nothing to say.
	for _, ed := range edges {
		if ed.Rising {
			continue
		}
		if rel, ok := e.holdRelease[ed.Key]; ok {
			delete(e.holdRelease, ed.Key)
			acts = append(acts, rel)
		}
		delete(e.holdRepeat, ed.Key)
	}

	for _, ev := range e.class.Update(now, edges) {
		b, ok := e.registry.ResolveBinding(e.modes.Current(), "", ev)
		if !ok {
			continue
		}
		act := b.Action
		if act.Kind == action.KindSwitchMode {
			from := e.modes.Current()
			if e.modes.Switch(act.Mode, now) {
				e.class.CancelButtons(e.registry.ButtonsDiffer(from, act.Mode))
			}
			continue
		}
		if ev.Kind == gesture.KindHold && len(ev.Keys) == 1 {
			if rel, has := act.ReleaseCounterpart(); has {
				e.holdRelease[ev.Keys[0]] = rel
			}
			if b.Repeat {
				e.holdRepeat[ev.Keys[0]] = act
				continue // the repeat pass below fires it this tick too
			}
		}
		acts = append(acts, act)
	}

	// Repeating holds fire every tick until their button releases.
	for key, act := range e.holdRepeat {
		if d, ok := e.devices[key.Device]; ok && d.Connected && d.Pressed(key.Button) {
			acts = append(acts, act)
		} else {
			delete(e.holdRepeat, key)
		}
	}
	return acts
}

// releaseHolds returns the release counterparts of every active hold
// on a device and forgets them. Caller holds the mutex.
func (e *Engine) releaseHolds(device int) []action.Action {
	var out []action.Action
	for k, rel := range e.holdRelease {
		if k.Device == device {
			delete(e.holdRelease, k)
			out = append(out, rel)
		}
	}
	return out
}

// motionDeltas computes this tick's cursor and scroll output from the
// driving device. Fractional remainders carry across ticks so slow
// deflections still move. Caller holds the mutex.
func (e *Engine) motionDeltas() (dx, dy, sh, sv int) {
	if e.paused || e.modes.Current() != mode.Motion {
		e.carryX, e.carryY, e.carryH, e.carryV = 0, 0, 0, 0
		return 0, 0, 0, 0
	}
	snap, ok := e.driving()
	if !ok {
		return 0, 0, 0, 0
	}

	scale := e.prof.Precision
	if snap.Pressed(gamepad.ButtonRT) {
		scale *= e.prof.SlowFactor
	}

	fx, fy := motion.CursorDelta(
		snap.AxisValue(gamepad.AxisLeftX), snap.AxisValue(gamepad.AxisLeftY), e.prof.Motion())
	e.carryX += fx * cursorScale * scale
	// Stick up is positive on the snapshot; screen y grows downward.
	e.carryY -= fy * cursorScale * scale
	dx, dy = int(e.carryX), int(e.carryY)
	e.carryX -= float64(dx)
	e.carryY -= float64(dy)

	fh, fv := motion.ScrollAmount(
		snap.AxisValue(gamepad.AxisRightX), snap.AxisValue(gamepad.AxisRightY),
		e.prof.DeadZone, e.prof.Scroll)
	e.carryH += fh / scrollStep
	e.carryV += fv / scrollStep
	sh, sv = int(e.carryH), int(e.carryV)
	e.carryH -= float64(sh)
	e.carryV -= float64(sv)

	return dx, dy, sh, sv
}

// driving returns the connected device with the lowest index. Caller
// holds the mutex.
func (e *Engine) driving() (gamepad.DeviceSnapshot, bool) {
	best := -1
	for idx, d := range e.devices {
		if !d.Connected {
			continue
		}
		if best < 0 || idx < best {
			best = idx
		}
	}
	if best < 0 {
		return gamepad.DeviceSnapshot{}, false
	}
	return e.devices[best], true
}

func (e *Engine) updateLocked() Update {
	e.seq++
	return Update{
		Seq:     e.seq,
		Devices: e.snapshotsLocked(),
		Mode:    e.modes.Current().String(),
		Profile: e.prof.Name,
		Paused:  e.paused,
	}
}

func (e *Engine) snapshotsLocked() []gamepad.DeviceSnapshot {
	idxs := make([]int, 0, len(e.devices))
	for idx := range e.devices {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	out := make([]gamepad.DeviceSnapshot, len(idxs))
	for i, idx := range idxs {
		out[i] = e.devices[idx]
	}
	return out
}

func (e *Engine) logEmitErr(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if time.Since(e.lastErrLog) >= pollErrInterval {
		e.lastErrLog = time.Now()
		log.Printf("Emission failed: %v", err)
	}
}

// Snapshots returns a copy of the device table, connected and
// recently-disconnected devices alike, ordered by index.
func (e *Engine) Snapshots() []gamepad.DeviceSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotsLocked()
}

// Mode returns the active mode.
func (e *Engine) Mode() mode.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modes.Current()
}

// ProfileName returns the active profile's name.
func (e *Engine) ProfileName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prof.Name
}

// SwitchProfile loads a profile by name and makes it active. The
// running mode and pending gestures are unaffected.
func (e *Engine) SwitchProfile(name string) error {
	p, err := e.store.Load(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.prof = p
	e.mu.Unlock()
	log.Printf("Profile switched to %s", name)
	return nil
}

// SetPaused stops gesture classification and motion output while still
// polling, so device state stays fresh for resume.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.paused == paused {
		return
	}
	e.paused = paused
	if paused {
		log.Printf("Engine paused")
	} else {
		log.Printf("Engine resumed")
	}
}

// Paused reports whether emission is suspended.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}
