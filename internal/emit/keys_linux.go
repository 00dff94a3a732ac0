package emit

// Linux input key codes for the key names used by binding tables.
// Names are case-insensitive; unknown names fail with ErrUnknownKey.
var linuxKeyCodes = map[string]uint16{
	"escape":    1,
	"tab":       15,
	"return":    28,
	"enter":     28,
	"control":   29,
	"ctrl":      29,
	"shift":     42,
	"alt":       56,
	"space":     57,
	"super":     125,
	"cmd":       125,
	"meta":      125,
	"backspace": 14,
	"delete":    111,

	"f1": 59, "f2": 60, "f3": 61, "f4": 62, "f5": 63, "f6": 64,
	"f7": 65, "f8": 66, "f9": 67, "f10": 68, "f11": 87, "f12": 88,

	"up": 103, "down": 108, "left": 105, "right": 106,
	"pageup": 104, "pagedown": 109, "home": 102, "end": 107,

	"printscreen":    99,
	"mute":           113,
	"volumedown":     114,
	"volumeup":       115,
	"brightnessdown": 224,
	"brightnessup":   225,
	"playpause":      164,
	"nextsong":       163,
	"previoussong":   165,
	"stopcd":         166,

	"1": 2, "2": 3, "3": 4, "4": 5, "5": 6,
	"6": 7, "7": 8, "8": 9, "9": 10, "0": 11,

	"q": 16, "w": 17, "e": 18, "r": 19, "t": 20, "y": 21,
	"u": 22, "i": 23, "o": 24, "p": 25,
	"a": 30, "s": 31, "d": 32, "f": 33, "g": 34, "h": 35,
	"j": 36, "k": 37, "l": 38,
	"z": 44, "x": 45, "c": 46, "v": 47, "b": 48, "n": 49, "m": 50,

	"[": 26, "]": 27, ",": 51, ".": 52, "/": 53, "-": 12, "=": 13,
}
