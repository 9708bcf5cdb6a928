// Package protocol defines the wire format for input events sent to the peer.
//
// Three message families go out: mouse events (string-valued JSON objects),
// pointer events (touch/pan/scale gestures), and keyboard events in either
// legacy or raw form. Modifier flags are stamped as presence keys: a modifier
// appears with the value "true" only while it is held.
package protocol

import (
	"encoding/json"
	"strconv"
)

// MouseEventType is the "type" field of a mouse message.
type MouseEventType string

const (
	MouseDown     MouseEventType = "down"
	MouseUp       MouseEventType = "up"
	MouseMove     MouseEventType = "move"
	MouseWheel    MouseEventType = "wheel"
	MouseTrackpad MouseEventType = "trackpad"
)

// Wire names for mouse buttons.
const (
	ButtonLeft    = "left"
	ButtonRight   = "right"
	ButtonWheel   = "wheel"
	ButtonBack    = "back"
	ButtonForward = "forward"
)

// Touch pointer event types.
const (
	TouchKind  = "touch"
	PanStart   = "pan_start"
	PanUpdate  = "pan_update"
	PanEnd     = "pan_end"
	TouchScale = "scale"
)

// Modifiers are the active modifier flags stamped onto outgoing events.
type Modifiers struct {
	Ctrl    bool
	Shift   bool
	Alt     bool
	Command bool
}

func (m Modifiers) stampStrings(fields map[string]string) {
	if m.Ctrl {
		fields["ctrl"] = "true"
	}
	if m.Shift {
		fields["shift"] = "true"
	}
	if m.Alt {
		fields["alt"] = "true"
	}
	if m.Command {
		fields["command"] = "true"
	}
}

func (m Modifiers) stamp(fields map[string]any) {
	if m.Ctrl {
		fields["ctrl"] = "true"
	}
	if m.Shift {
		fields["shift"] = "true"
	}
	if m.Alt {
		fields["alt"] = "true"
	}
	if m.Command {
		fields["command"] = "true"
	}
}

// EncodeMouse builds a mouse message. Coordinates are sent as decimal strings.
// Down and up events always carry "0"/"0"; the peer uses its last known
// position for those.
func EncodeMouse(t MouseEventType, x, y int, buttons string, m Modifiers) ([]byte, error) {
	fields := map[string]string{
		"type":    string(t),
		"buttons": buttons,
	}
	switch t {
	case MouseDown, MouseUp:
		fields["x"] = "0"
		fields["y"] = "0"
	default:
		fields["x"] = strconv.Itoa(x)
		fields["y"] = strconv.Itoa(y)
	}
	m.stampStrings(fields)
	return json.Marshal(fields)
}

// EncodeTouchPan builds a pan gesture pointer message. For pan_start the
// payload carries the mapped position, for updates the scroll delta.
func EncodeTouchPan(t string, x, y int, m Modifiers) ([]byte, error) {
	fields := map[string]any{
		"k": TouchKind,
		"v": map[string]any{
			"t": t,
			"v": map[string]int{"x": x, "y": y},
		},
	}
	m.stamp(fields)
	return json.Marshal(fields)
}

// EncodeTouchScale builds a pinch gesture pointer message. A scale of zero
// terminates the gesture.
func EncodeTouchScale(scale int, m Modifiers) ([]byte, error) {
	fields := map[string]any{
		"k": TouchKind,
		"v": map[string]any{
			"t": TouchScale,
			"v": scale,
		},
	}
	m.stamp(fields)
	return json.Marshal(fields)
}

// EncodeLegacyKey builds a named-key message. A repeat arrives as a press
// (down immediately followed by up on the peer).
func EncodeLegacyKey(name string, down, press bool, m Modifiers) ([]byte, error) {
	fields := map[string]any{
		"name":  name,
		"down":  down,
		"press": press,
	}
	m.stamp(fields)
	return json.Marshal(fields)
}

// RawKeyMessage is the positional-mode keyboard event. No modifier flags: the
// peer derives modifier state from the raw stream itself.
type RawKeyMessage struct {
	Name         string `json:"name"`
	PlatformCode uint32 `json:"platformCode"`
	PositionCode uint32 `json:"positionCode"`
	LockModes    uint8  `json:"lockModes"`
	Down         bool   `json:"down"`
}

// EncodeRawKey builds a positional-mode keyboard message.
func EncodeRawKey(name string, platformCode, positionCode uint32, lockModes uint8, down bool) ([]byte, error) {
	return json.Marshal(RawKeyMessage{
		Name:         name,
		PlatformCode: platformCode,
		PositionCode: positionCode,
		LockModes:    lockModes,
		Down:         down,
	})
}
