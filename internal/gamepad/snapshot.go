package gamepad

import "time"

// ButtonState is the per-tick state of one canonical button.
// Values are immutable once a snapshot is built; edge detection compares
// against the previous tick's copy.
type ButtonState struct {
	Pressed bool    `json:"pressed"`
	Touched bool    `json:"touched"`
	Value   float64 `json:"value"` // 0..1 for analog buttons
}

// DeviceSnapshot is the normalized state of one controller for one tick.
// A device that drops out of a poll is marked disconnected, not deleted,
// so timers keyed on it can still resolve.
type DeviceSnapshot struct {
	ID        string                   `json:"id"`
	Index     int                      `json:"index"`
	Connected bool                     `json:"connected"`
	Timestamp time.Time                `json:"timestamp"`
	Buttons   [ButtonCount]ButtonState `json:"buttons"`
	Axes      [AxisCount]float64       `json:"axes"`
	Layout    string                   `json:"layout"`
	Actuators int                      `json:"actuators"`
}

// Pressed reports whether the given canonical button is down.
func (s *DeviceSnapshot) Pressed(b Button) bool {
	if b < 0 || b >= ButtonCount {
		return false
	}
	return s.Buttons[b].Pressed
}

// AxisValue returns the normalized value of a primary axis in [-1, 1].
func (s *DeviceSnapshot) AxisValue(a Axis) float64 {
	if a < 0 || a >= AxisCount {
		return 0
	}
	return s.Axes[a]
}

func (s *DeviceSnapshot) setButton(b Button, pressed bool, value float64) {
	if b < 0 || b >= ButtonCount {
		return
	}
	s.Buttons[b] = ButtonState{Pressed: pressed, Touched: pressed || value > 0, Value: value}
}

func (s *DeviceSnapshot) setAxis(a Axis, value float64) {
	if a < 0 || a >= AxisCount {
		return
	}
	if value < -1 {
		value = -1
	} else if value > 1 {
		value = 1
	}
	s.Axes[a] = value
}
