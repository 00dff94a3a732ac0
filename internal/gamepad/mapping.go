package gamepad

import "math"

// AxisMapping routes a raw axis index onto a canonical primary axis.
type AxisMapping struct {
	Index  int32
	Target Axis
	Invert bool
}

// TriggerMapping routes a raw axis index onto an analog trigger button.
// Raw range differs per device: some use -32768..32767, others 0..32767.
type TriggerMapping struct {
	Index  int32
	Target Button // ButtonLT or ButtonRT
	RawMin int16
	RawMax int16
}

// ButtonMapping routes a raw button index onto a canonical button.
type ButtonMapping struct {
	Index  int32
	Target Button
}

// DeviceMapping holds the complete layout translation for a device type.
// Raw inputs with no mapping entry are dropped; the snapshot stays valid.
type DeviceMapping struct {
	Name     string
	Axes     []AxisMapping
	Triggers []TriggerMapping
	Buttons  []ButtonMapping
	HasHat   bool
}

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0. The
// subtraction widens to int first: full-range triggers span more than
// an int16 can hold.
func NormalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := float64(int(raw)-int(rawMin)) / float64(int(rawMax)-int(rawMin))
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// Built-in mappings for common controllers.

var xboxMapping = &DeviceMapping{
	Name: "xbox",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY, Invert: true},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY, Invert: true},
	},
	Triggers: []TriggerMapping{
		{Index: 4, Target: ButtonLT, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: ButtonRT, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonSouth},
		{Index: 1, Target: ButtonEast},
		{Index: 2, Target: ButtonWest},
		{Index: 3, Target: ButtonNorth},
		{Index: 4, Target: ButtonLB},
		{Index: 5, Target: ButtonRB},
		{Index: 6, Target: ButtonSelect},
		{Index: 7, Target: ButtonStart},
		{Index: 8, Target: ButtonL3},
		{Index: 9, Target: ButtonR3},
		{Index: 10, Target: ButtonGuide},
	},
	HasHat: true,
}

var playstationMapping = &DeviceMapping{
	Name: "playstation",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY, Invert: true},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY, Invert: true},
	},
	Triggers: []TriggerMapping{
		{Index: 4, Target: ButtonLT, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: ButtonRT, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonSouth},  // Cross (×)
		{Index: 1, Target: ButtonEast},   // Circle (○)
		{Index: 2, Target: ButtonWest},   // Square (□)
		{Index: 3, Target: ButtonNorth},  // Triangle (△)
		{Index: 4, Target: ButtonSelect}, // Share / Create
		{Index: 5, Target: ButtonGuide},  // PS button
		{Index: 6, Target: ButtonStart},  // Options
		{Index: 7, Target: ButtonL3},
		{Index: 8, Target: ButtonR3},
		{Index: 9, Target: ButtonLB},  // L1
		{Index: 10, Target: ButtonRB}, // R1
	},
	HasHat: true,
}

var switchProMapping = &DeviceMapping{
	Name: "switch_pro",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY, Invert: true},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY, Invert: true},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonSouth},
		{Index: 1, Target: ButtonEast},
		{Index: 2, Target: ButtonWest},
		{Index: 3, Target: ButtonNorth},
		{Index: 4, Target: ButtonLB},
		{Index: 5, Target: ButtonRB},
		{Index: 6, Target: ButtonSelect},
		{Index: 7, Target: ButtonStart},
		{Index: 8, Target: ButtonL3},
		{Index: 9, Target: ButtonR3},
		{Index: 10, Target: ButtonGuide},
	},
	HasHat: true,
}

var genericMapping = &DeviceMapping{
	Name: "generic",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY, Invert: true},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY, Invert: true},
	},
	Triggers: []TriggerMapping{
		{Index: 4, Target: ButtonLT, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: ButtonRT, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonSouth},
		{Index: 1, Target: ButtonEast},
		{Index: 2, Target: ButtonWest},
		{Index: 3, Target: ButtonNorth},
		{Index: 4, Target: ButtonLB},
		{Index: 5, Target: ButtonRB},
		{Index: 6, Target: ButtonSelect},
		{Index: 7, Target: ButtonStart},
		{Index: 8, Target: ButtonL3},
		{Index: 9, Target: ButtonR3},
		{Index: 10, Target: ButtonGuide},
	},
	HasHat: true,
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the appropriate mapping for a device identified by
// vendor/product ID. Falls back to the generic mapping.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	key := deviceKey{VendorID: vendorID, ProductID: productID}
	if m, ok := knownDevices[key]; ok {
		return m
	}
	return genericMapping
}
