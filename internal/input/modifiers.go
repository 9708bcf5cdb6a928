package input

// Modifiers are the four modifier flags tracked for a session.
type Modifiers struct {
	Shift   bool
	Ctrl    bool
	Alt     bool
	Command bool
}

// modifierSlot identifies one physical modifier key. Left and right variants
// are tracked separately so that releaseAll can synthesize an up event for
// the exact key still held.
type modifierSlot int

const (
	slotShiftLeft modifierSlot = iota
	slotShiftRight
	slotCtrlLeft
	slotCtrlRight
	slotAltLeft
	slotAltRight
	slotCommandLeft
	slotCommandRight
	slotSuper
	slotCount
)

// ModifierTracker maintains the modifier flags and the outstanding physical
// key-down events that must be released when focus is lost. At most one
// outstanding entry exists per slot.
type ModifierTracker struct {
	flags Modifiers
	held  [slotCount]*KeySample
}

// Flags returns the current modifier flags.
func (t *ModifierTracker) Flags() Modifiers {
	return t.flags
}

// KeyDown records a key-down. A non-repeated down of a modifier family sets
// the flag on its first edge; repeats do not re-trigger. The physical event
// is stored in its identity slot regardless of the flag state.
func (t *ModifierTracker) KeyDown(s KeySample) {
	slot, ok := slotFor(s.Physical, s.Logical)
	if !ok {
		return
	}
	if !s.Repeat {
		switch familyFor(slot) {
		case familyShift:
			if !t.flags.Shift {
				t.flags.Shift = true
			}
		case familyCtrl:
			if !t.flags.Ctrl {
				t.flags.Ctrl = true
			}
		case familyAlt:
			if !t.flags.Alt {
				t.flags.Alt = true
			}
		case familyCommand:
			if !t.flags.Command {
				t.flags.Command = true
			}
		}
	}
	held := s
	t.held[slot] = &held
}

// KeyUp clears the flag and the outstanding slot for a modifier key-up.
func (t *ModifierTracker) KeyUp(s KeySample) {
	slot, ok := slotFor(s.Physical, s.Logical)
	if !ok {
		return
	}
	switch familyFor(slot) {
	case familyShift:
		t.flags.Shift = false
	case familyCtrl:
		t.flags.Ctrl = false
	case familyAlt:
		t.flags.Alt = false
	case familyCommand:
		t.flags.Command = false
	}
	t.held[slot] = nil
}

// ReleaseAll synthesizes an up event for every key still held and clears all
// state. The OS swallows the real key-up when focus moves away, so without
// this the peer would see the modifier stuck down forever.
func (t *ModifierTracker) ReleaseAll(redispatch func(KeySample)) {
	for slot := modifierSlot(0); slot < slotCount; slot++ {
		held := t.held[slot]
		if held == nil {
			continue
		}
		t.held[slot] = nil
		if redispatch != nil {
			up := *held
			up.Down = false
			up.Repeat = false
			redispatch(up)
		}
	}
	t.flags = Modifiers{}
}

// Reset drops all state without synthesizing events.
func (t *ModifierTracker) Reset() {
	t.flags = Modifiers{}
	for i := range t.held {
		t.held[i] = nil
	}
}

type modifierFamily int

const (
	familyNone modifierFamily = iota
	familyShift
	familyCtrl
	familyAlt
	familyCommand
)

func familyFor(slot modifierSlot) modifierFamily {
	switch slot {
	case slotShiftLeft, slotShiftRight:
		return familyShift
	case slotCtrlLeft, slotCtrlRight:
		return familyCtrl
	case slotAltLeft, slotAltRight:
		return familyAlt
	case slotCommandLeft, slotCommandRight, slotSuper:
		return familyCommand
	}
	return familyNone
}

// slotFor resolves a key to its modifier slot, first by physical identity,
// then by the generic logical "Super" used by some platforms.
func slotFor(physical PhysicalKey, logical LogicalKey) (modifierSlot, bool) {
	switch physical {
	case "ShiftLeft":
		return slotShiftLeft, true
	case "ShiftRight":
		return slotShiftRight, true
	case "ControlLeft":
		return slotCtrlLeft, true
	case "ControlRight":
		return slotCtrlRight, true
	case "AltLeft":
		return slotAltLeft, true
	case "AltRight":
		return slotAltRight, true
	case "MetaLeft":
		return slotCommandLeft, true
	case "MetaRight":
		return slotCommandRight, true
	}
	if logical == "Super" {
		return slotSuper, true
	}
	return 0, false
}

// isModifierKey reports whether the sample is one of the tracked modifier
// keys.
func isModifierKey(s KeySample) bool {
	_, ok := slotFor(s.Physical, s.Logical)
	return ok
}
