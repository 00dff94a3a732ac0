package gamepad

import "time"

const (
	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// RawReport is one device's unmapped state for a single poll, as read
// from the controller backend.
type RawReport struct {
	ID        string
	Index     int
	Layout    *DeviceMapping
	Axes      []int16
	Buttons   []bool
	Hat       uint8
	Actuators int
}

// Normalize maps a raw report onto the canonical layout. Inputs the
// mapping does not cover are dropped; the snapshot is always valid.
// Trigger axes are promoted to digital buttons at TriggerThreshold while
// keeping their analog value.
func Normalize(r RawReport, now time.Time) DeviceSnapshot {
	snap := DeviceSnapshot{
		ID:        r.ID,
		Index:     r.Index,
		Connected: true,
		Timestamp: now,
		Layout:    r.Layout.Name,
		Actuators: r.Actuators,
	}

	for _, am := range r.Layout.Axes {
		if int(am.Index) >= len(r.Axes) {
			continue
		}
		v := NormalizeAxis(r.Axes[am.Index])
		if am.Invert {
			v = -v
		}
		snap.setAxis(am.Target, v)
	}

	for _, tm := range r.Layout.Triggers {
		if int(tm.Index) >= len(r.Axes) {
			continue
		}
		v := NormalizeTrigger(r.Axes[tm.Index], tm.RawMin, tm.RawMax)
		snap.setButton(tm.Target, v >= TriggerThreshold, v)
	}

	for _, bm := range r.Layout.Buttons {
		if int(bm.Index) >= len(r.Buttons) {
			continue
		}
		if r.Buttons[bm.Index] {
			snap.setButton(bm.Target, true, 1.0)
		}
	}

	if r.Layout.HasHat {
		if r.Hat&hatUp != 0 {
			snap.setButton(ButtonDpadUp, true, 1.0)
		}
		if r.Hat&hatDown != 0 {
			snap.setButton(ButtonDpadDown, true, 1.0)
		}
		if r.Hat&hatLeft != 0 {
			snap.setButton(ButtonDpadLeft, true, 1.0)
		}
		if r.Hat&hatRight != 0 {
			snap.setButton(ButtonDpadRight, true, 1.0)
		}
	}

	return snap
}
