package gesture

import (
	"time"

	"github.com/padmux/padmux/internal/gamepad"
)

// buttonState is the cross-tick timing state for one EdgeKey. Entries are
// created on first observation and persist until the device disconnects.
type buttonState struct {
	pressed     bool
	pressTime   time.Time
	holdFired   bool
	suppressed  bool // consumed by a chord for this press cycle
	doubleArmed bool // second press of a double-tap in progress

	pendingTap  bool // released before the tap threshold, waiting out the double-tap window
	tapDeadline time.Time
}

type chordState struct {
	active     bool
	start      time.Time
	candidates []EdgeKey
}

type sequenceState struct {
	active   bool
	first    EdgeKey
	deadline time.Time
}

// Classifier turns edges into gesture events. It is not safe for
// concurrent use; the engine confines it to the tick loop.
type Classifier struct {
	cfg    Config
	states map[EdgeKey]*buttonState
	order  []EdgeKey // first-observed order, for deterministic deadline evaluation
	chord  chordState
	seq    sequenceState
}

// NewClassifier returns a classifier with the given timing windows.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{
		cfg:    cfg,
		states: make(map[EdgeKey]*buttonState),
	}
}

func (c *Classifier) state(key EdgeKey) *buttonState {
	if s, ok := c.states[key]; ok {
		return s
	}
	s := &buttonState{}
	c.states[key] = s
	c.order = append(c.order, key)
	return s
}

// Update advances all pending timers to now, then applies this tick's
// edges, returning every gesture completed in this tick. Deadlines are
// evaluated before edges so a hold that crossed its threshold is
// classified before the release that ends it.
func (c *Classifier) Update(now time.Time, edges []Edge) []Event {
	var events []Event
	events = c.evaluateDeadlines(now, events)
	for _, e := range edges {
		if e.Rising {
			events = c.handlePress(e.Key, now, events)
		} else {
			events = c.handleRelease(e.Key, now, events)
		}
	}
	return events
}

func (c *Classifier) evaluateDeadlines(now time.Time, events []Event) []Event {
	// Pending taps whose double-tap window lapsed become Taps.
	for _, key := range c.order {
		s := c.states[key]
		if s.pendingTap && now.After(s.tapDeadline) {
			s.pendingTap = false
			events = c.emit(events, Event{Kind: KindTap, Keys: []EdgeKey{key}, Time: now})
		}
	}

	// A chord window that lapsed resolves to a Chord if at least two of
	// its candidates are still concurrently pressed. Runs before hold
	// evaluation so chord members are suppressed first.
	if c.chord.active && now.Sub(c.chord.start) >= c.cfg.ChordWindow {
		events = c.resolveChord(now, events)
	}

	// Holds fire exactly once when the press crosses the tap threshold.
	for _, key := range c.order {
		s := c.states[key]
		if s.pressed && !s.holdFired && !s.suppressed && !s.doubleArmed &&
			now.Sub(s.pressTime) >= c.cfg.TapThreshold {
			s.holdFired = true
			events = c.emit(events, Event{Kind: KindHold, Keys: []EdgeKey{key}, Time: now})
		}
	}

	// A pending sequence that timed out is discarded with no side effect.
	if c.seq.active && now.After(c.seq.deadline) {
		c.seq = sequenceState{}
	}

	return events
}

func (c *Classifier) handlePress(key EdgeKey, now time.Time, events []Event) []Event {
	s := c.state(key)

	// A pending sequence completes on a distinct button's rising edge.
	if c.seq.active && c.seq.first != key && !now.After(c.seq.deadline) {
		events = append(events, Event{
			Kind: KindSequence,
			Keys: []EdgeKey{c.seq.first, key},
			Time: now,
		})
		c.seq = sequenceState{}
	}

	if s.pendingTap && !now.After(s.tapDeadline) {
		// Second press inside the double-tap window: the immediately
		// following release completes a DoubleTap instead of two Taps.
		s.pendingTap = false
		s.doubleArmed = true
		s.pressed = true
		s.pressTime = now
		s.holdFired = false
		s.suppressed = false
		return events
	}

	s.pressed = true
	s.pressTime = now
	s.holdFired = false
	s.suppressed = false
	s.doubleArmed = false

	// Track the press for chord detection.
	if !c.chord.active {
		c.chord = chordState{active: true, start: now, candidates: []EdgeKey{key}}
	} else if now.Sub(c.chord.start) < c.cfg.ChordWindow {
		c.chord.candidates = append(c.chord.candidates, key)
	}

	return events
}

func (c *Classifier) handleRelease(key EdgeKey, now time.Time, events []Event) []Event {
	s, ok := c.states[key]
	if !ok || !s.pressed {
		return events
	}
	s.pressed = false

	switch {
	case s.suppressed:
		// Chord consumed this press cycle.
	case s.doubleArmed:
		s.doubleArmed = false
		events = c.emit(events, Event{Kind: KindDoubleTap, Keys: []EdgeKey{key}, Time: now})
	case s.holdFired:
		// Hold already classified at the threshold crossing; this edge
		// only marks its end.
	case now.Sub(s.pressTime) < c.cfg.TapThreshold:
		// Defer the Tap until the double-tap window lapses.
		s.pendingTap = true
		s.tapDeadline = now.Add(c.cfg.DoubleTapWindow)
	}
	return events
}

func (c *Classifier) resolveChord(now time.Time, events []Event) []Event {
	var held []EdgeKey
	for _, key := range c.chord.candidates {
		if s, ok := c.states[key]; ok && s.pressed && !s.doubleArmed {
			held = append(held, key)
		}
	}
	c.chord = chordState{}

	if len(held) < 2 {
		return events
	}
	// Suppress the members' individual Tap/Hold for this press cycle.
	for _, key := range held {
		s := c.states[key]
		s.suppressed = true
		s.pendingTap = false
	}
	return c.emit(events, Event{Kind: KindChord, Keys: held, Time: now})
}

// emit appends ev and arms sequence detection for single-button gestures.
func (c *Classifier) emit(events []Event, ev Event) []Event {
	if len(ev.Keys) == 1 {
		c.seq = sequenceState{
			active:   true,
			first:    ev.Keys[0],
			deadline: ev.Time.Add(c.cfg.SequenceTimeout),
		}
	}
	return append(events, ev)
}

// CancelDevice drops every pending timer and state entry for a device.
// Called on disconnect; nothing may classify for the device afterwards.
func (c *Classifier) CancelDevice(device int) {
	kept := c.order[:0]
	for _, key := range c.order {
		if key.Device == device {
			delete(c.states, key)
		} else {
			kept = append(kept, key)
		}
	}
	c.order = kept

	if c.chord.active {
		cands := c.chord.candidates[:0]
		for _, key := range c.chord.candidates {
			if key.Device != device {
				cands = append(cands, key)
			}
		}
		c.chord.candidates = cands
		if len(c.chord.candidates) == 0 {
			c.chord = chordState{}
		}
	}
	if c.seq.active && c.seq.first.Device == device {
		c.seq = sequenceState{}
	}
}

// CancelButtons aborts pending classification for the given buttons on
// every device. Used on mode transitions so a gesture started in one
// mode cannot resolve into an action defined in another; the current
// press cycle of an affected button is consumed without an event.
func (c *Classifier) CancelButtons(buttons []gamepad.Button) {
	set := make(map[gamepad.Button]bool, len(buttons))
	for _, b := range buttons {
		set[b] = true
	}

	for _, key := range c.order {
		if !set[key.Button] {
			continue
		}
		s := c.states[key]
		s.pendingTap = false
		s.doubleArmed = false
		if s.pressed {
			s.suppressed = true
		}
	}

	if c.chord.active {
		cands := c.chord.candidates[:0]
		for _, key := range c.chord.candidates {
			if !set[key.Button] {
				cands = append(cands, key)
			}
		}
		c.chord.candidates = cands
		if len(c.chord.candidates) == 0 {
			c.chord = chordState{}
		}
	}
	if c.seq.active && set[c.seq.first.Button] {
		c.seq = sequenceState{}
	}
}
