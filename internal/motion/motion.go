// Package motion converts normalized axis deflection into cursor and
// scroll deltas. Everything here is pure so the math can be tested
// without a polling loop.
package motion

import "math"

// ScrollScale is the fixed factor applied to scroll deflection before the
// per-axis speed multiplier.
const ScrollScale = 10.0

// CurvePoint is one control point of an acceleration curve. In is a
// deflection magnitude in [0,1], Out the multiplier applied there.
type CurvePoint struct {
	In  float64 `mapstructure:"in" json:"in"`
	Out float64 `mapstructure:"out" json:"out"`
}

// Curve is a monotonic piecewise-linear acceleration curve over
// deflection bands. An empty curve is the identity multiplier.
type Curve struct {
	Points []CurvePoint
}

// At evaluates the curve at deflection magnitude x, interpolating
// linearly between control points and clamping outside their range.
func (c Curve) At(x float64) float64 {
	if len(c.Points) == 0 {
		return 1.0
	}
	if x <= c.Points[0].In {
		return c.Points[0].Out
	}
	for i := 1; i < len(c.Points); i++ {
		p0, p1 := c.Points[i-1], c.Points[i]
		if x <= p1.In {
			if p1.In == p0.In {
				return p1.Out
			}
			t := (x - p0.In) / (p1.In - p0.In)
			return p0.Out + t*(p1.Out-p0.Out)
		}
	}
	return c.Points[len(c.Points)-1].Out
}

// ApplyDeadzone zeroes deflection below dz and remaps the rest so the
// output is continuous and spans the full [0,1] magnitude range:
//
//	v' = sign(v) * (|v| - dz) / (1 - dz)
func ApplyDeadzone(v, dz float64) float64 {
	av := math.Abs(v)
	if av < dz {
		return 0
	}
	out := (av - dz) / (1 - dz)
	if out > 1 {
		out = 1
	}
	return math.Copysign(out, v)
}

// Settings are the cursor-motion tunables read from the active profile.
type Settings struct {
	Sensitivity float64
	DeadZone    float64
	Accel       Curve
}

// CursorDelta computes the per-tick cursor displacement for a stick
// deflection (x, y in [-1,1]).
func CursorDelta(x, y float64, s Settings) (dx, dy float64) {
	rx := ApplyDeadzone(x, s.DeadZone)
	ry := ApplyDeadzone(y, s.DeadZone)
	dx = rx * s.Sensitivity * s.Accel.At(math.Abs(rx))
	dy = ry * s.Sensitivity * s.Accel.At(math.Abs(ry))
	return dx, dy
}

// ScrollSettings are the scroll tunables read from the active profile.
type ScrollSettings struct {
	VerticalSpeed     float64 `mapstructure:"vertical_speed" json:"vertical_speed"`
	HorizontalSpeed   float64 `mapstructure:"horizontal_speed" json:"horizontal_speed"`
	ReverseVertical   bool    `mapstructure:"reverse_vertical" json:"reverse_vertical"`
	ReverseHorizontal bool    `mapstructure:"reverse_horizontal" json:"reverse_horizontal"`
}

// ScrollAmount computes per-tick horizontal and vertical scroll for a
// stick deflection, each axis independent and independently reversible.
func ScrollAmount(x, y, deadZone float64, sc ScrollSettings) (h, v float64) {
	h = ApplyDeadzone(x, deadZone) * sc.HorizontalSpeed * ScrollScale
	v = ApplyDeadzone(y, deadZone) * sc.VerticalSpeed * ScrollScale
	if sc.ReverseHorizontal {
		h = -h
	}
	if sc.ReverseVertical {
		v = -v
	}
	return h, v
}
