package input

import "strings"

// legacyKeyName resolves the symbolic wire name for a key: physical identity
// first, then logical identity, then the raw label lowercased.
func legacyKeyName(s KeySample) string {
	if name, ok := physicalKeyNames[s.Physical]; ok {
		return name
	}
	if name, ok := logicalKeyNames[s.Logical]; ok {
		return name
	}
	return strings.ToLower(s.Label)
}

// positionalCodes extracts the position (scan) code and platform (virtual)
// code from the native key fields. Which field means what differs per OS:
// Windows and Linux deliver a hardware scan code plus a virtual key / keysym,
// while macOS virtual key codes are already positional and double as both.
func positionalCodes(p Platform, s KeySample) (positionCode, platformCode uint32) {
	switch p {
	case PlatformWindows, PlatformLinux:
		return s.ScanCode, s.KeyCode
	case PlatformMacOS:
		return s.KeyCode, s.KeyCode
	}
	return s.ScanCode, s.ScanCode
}

// physicalKeyNames maps platform-independent physical key identities to the
// symbolic names of the legacy keyboard protocol.
var physicalKeyNames = map[PhysicalKey]string{
	"KeyA": "a", "KeyB": "b", "KeyC": "c", "KeyD": "d", "KeyE": "e",
	"KeyF": "f", "KeyG": "g", "KeyH": "h", "KeyI": "i", "KeyJ": "j",
	"KeyK": "k", "KeyL": "l", "KeyM": "m", "KeyN": "n", "KeyO": "o",
	"KeyP": "p", "KeyQ": "q", "KeyR": "r", "KeyS": "s", "KeyT": "t",
	"KeyU": "u", "KeyV": "v", "KeyW": "w", "KeyX": "x", "KeyY": "y",
	"KeyZ": "z",

	"Digit0": "0", "Digit1": "1", "Digit2": "2", "Digit3": "3",
	"Digit4": "4", "Digit5": "5", "Digit6": "6", "Digit7": "7",
	"Digit8": "8", "Digit9": "9",

	"Enter":     "return",
	"Tab":       "tab",
	"Space":     "space",
	"Backspace": "backspace",
	"Escape":    "escape",
	"Delete":    "delete",
	"Insert":    "insert",
	"Home":      "home",
	"End":       "end",
	"PageUp":    "pageup",
	"PageDown":  "pagedown",

	"ArrowLeft":  "left",
	"ArrowRight": "right",
	"ArrowUp":    "up",
	"ArrowDown":  "down",

	"F1": "f1", "F2": "f2", "F3": "f3", "F4": "f4", "F5": "f5",
	"F6": "f6", "F7": "f7", "F8": "f8", "F9": "f9", "F10": "f10",
	"F11": "f11", "F12": "f12",

	"Minus":        "-",
	"Equal":        "=",
	"BracketLeft":  "[",
	"BracketRight": "]",
	"Backslash":    "\\",
	"Semicolon":    ";",
	"Quote":        "'",
	"Backquote":    "`",
	"Comma":        ",",
	"Period":       ".",
	"Slash":        "/",

	"NumpadEnter":    "return",
	"NumpadAdd":      "+",
	"NumpadSubtract": "-",
	"NumpadMultiply": "*",
	"NumpadDivide":   "/",
	"NumpadDecimal":  ".",
	"Numpad0":        "0", "Numpad1": "1", "Numpad2": "2",
	"Numpad3": "3", "Numpad4": "4", "Numpad5": "5", "Numpad6": "6",
	"Numpad7": "7", "Numpad8": "8", "Numpad9": "9",
}

// logicalKeyNames covers keys whose physical identity varies across boards
// but whose logical meaning is stable.
var logicalKeyNames = map[LogicalKey]string{
	"Enter":       "return",
	"Backspace":   "backspace",
	"Escape":      "escape",
	"Tab":         "tab",
	" ":           "space",
	"ArrowLeft":   "left",
	"ArrowRight":  "right",
	"ArrowUp":     "up",
	"ArrowDown":   "down",
	"CapsLock":    "capslock",
	"NumLock":     "numlock",
	"ScrollLock":  "scrolllock",
	"PrintScreen": "printscreen",
	"Pause":       "pause",
	"ContextMenu": "menu",
}
