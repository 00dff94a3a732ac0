package engine

import (
	"sort"
	"time"

	"github.com/padmux/padmux/internal/gamepad"
	"github.com/padmux/padmux/internal/gesture"
)

// Tracker diffs successive snapshots into button edges. It owns the
// per-device previous state; entries live until the device disconnects.
type Tracker struct {
	prev map[int]gamepad.DeviceSnapshot
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{prev: make(map[int]gamepad.DeviceSnapshot)}
}

// Update compares this tick's snapshots against the previous tick and
// returns the rising and falling edges, plus the indices of devices
// that disappeared since last tick. A device's first snapshot only
// establishes its baseline: buttons already held at connect produce no
// edges.
func (t *Tracker) Update(snapshots []gamepad.DeviceSnapshot, now time.Time) (edges []gesture.Edge, gone []int) {
	seen := make(map[int]bool, len(snapshots))

	for _, snap := range snapshots {
		if !snap.Connected {
			continue
		}
		seen[snap.Index] = true
		prev, known := t.prev[snap.Index]
		if known {
			for b := gamepad.Button(0); b < gamepad.ButtonCount; b++ {
				was, is := prev.Pressed(b), snap.Pressed(b)
				if was == is {
					continue
				}
				edges = append(edges, gesture.Edge{
					Key:    gesture.EdgeKey{Device: snap.Index, Button: b},
					Rising: is,
					Time:   now,
				})
			}
		}
		t.prev[snap.Index] = snap
	}

	for idx := range t.prev {
		if !seen[idx] {
			gone = append(gone, idx)
			delete(t.prev, idx)
		}
	}
	sort.Ints(gone)
	return edges, gone
}

// Reset drops all tracked state.
func (t *Tracker) Reset() {
	t.prev = make(map[int]gamepad.DeviceSnapshot)
}
