package gamepad

// Button identifies a position in the canonical controller layout.
// Vendor-specific indices are mapped onto these by a DeviceMapping.
type Button int

const (
	ButtonSouth Button = iota // A / Cross
	ButtonEast                // B / Circle
	ButtonWest                // X / Square
	ButtonNorth               // Y / Triangle
	ButtonLB
	ButtonRB
	ButtonLT // trigger, promoted from the analog axis
	ButtonRT
	ButtonSelect
	ButtonStart
	ButtonL3
	ButtonR3
	ButtonGuide
	ButtonDpadUp
	ButtonDpadDown
	ButtonDpadLeft
	ButtonDpadRight

	ButtonCount
)

var buttonNames = [ButtonCount]string{
	"south", "east", "west", "north",
	"lb", "rb", "lt", "rt",
	"select", "start", "l3", "r3", "guide",
	"dpad_up", "dpad_down", "dpad_left", "dpad_right",
}

func (b Button) String() string {
	if b < 0 || b >= ButtonCount {
		return "unknown"
	}
	return buttonNames[b]
}

// ParseButton resolves a canonical button name. Reports false for
// unknown names.
func ParseButton(name string) (Button, bool) {
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}
	return 0, false
}

// Axis identifies one of the four primary analog axes.
type Axis int

const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY

	AxisCount
)

var axisNames = [AxisCount]string{"left_x", "left_y", "right_x", "right_y"}

func (a Axis) String() string {
	if a < 0 || a >= AxisCount {
		return "unknown"
	}
	return axisNames[a]
}

// TriggerThreshold is the analog value at which a trigger axis is
// additionally reported as a pressed digital button.
const TriggerThreshold = 0.5
