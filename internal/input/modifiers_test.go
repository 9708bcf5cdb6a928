package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shiftDown(physical PhysicalKey) KeySample {
	return KeySample{Down: true, Physical: physical, Logical: "Shift"}
}

func TestModifierTrackerFlags(t *testing.T) {
	var tr ModifierTracker

	tr.KeyDown(shiftDown("ShiftLeft"))
	assert.True(t, tr.Flags().Shift)

	tr.KeyDown(KeySample{Down: true, Physical: "ControlLeft", Logical: "Control"})
	tr.KeyDown(KeySample{Down: true, Physical: "AltRight", Logical: "Alt"})
	tr.KeyDown(KeySample{Down: true, Physical: "MetaLeft", Logical: "Meta"})
	flags := tr.Flags()
	assert.True(t, flags.Ctrl)
	assert.True(t, flags.Alt)
	assert.True(t, flags.Command)

	tr.KeyUp(KeySample{Physical: "ShiftLeft", Logical: "Shift"})
	assert.False(t, tr.Flags().Shift)
	assert.True(t, tr.Flags().Ctrl, "other flags untouched")
}

func TestModifierTrackerRepeatDoesNotRetrigger(t *testing.T) {
	var tr ModifierTracker

	tr.KeyDown(shiftDown("ShiftLeft"))
	tr.KeyUp(KeySample{Physical: "ShiftLeft", Logical: "Shift"})

	repeat := shiftDown("ShiftLeft")
	repeat.Repeat = true
	tr.KeyDown(repeat)
	assert.False(t, tr.Flags().Shift, "repeat must not set the flag")
}

func TestModifierTrackerNonModifierIgnored(t *testing.T) {
	var tr ModifierTracker
	tr.KeyDown(KeySample{Down: true, Physical: "KeyA", Logical: "a"})
	assert.Equal(t, Modifiers{}, tr.Flags())

	var released []KeySample
	tr.ReleaseAll(func(s KeySample) { released = append(released, s) })
	assert.Empty(t, released)
}

func TestModifierTrackerReleaseAll(t *testing.T) {
	var tr ModifierTracker

	tr.KeyDown(shiftDown("ShiftLeft"))
	tr.KeyDown(shiftDown("ShiftRight"))
	tr.KeyDown(KeySample{Down: true, Physical: "ControlLeft", Logical: "Control"})
	tr.KeyDown(KeySample{Down: true, Logical: "Super"})

	var released []KeySample
	tr.ReleaseAll(func(s KeySample) { released = append(released, s) })

	require.Len(t, released, 4, "one up event per held slot")
	for _, s := range released {
		assert.False(t, s.Down)
		assert.False(t, s.Repeat)
	}
	assert.Equal(t, Modifiers{}, tr.Flags())

	// Nothing left to release on a second pass.
	released = nil
	tr.ReleaseAll(func(s KeySample) { released = append(released, s) })
	assert.Empty(t, released)
}

func TestModifierTrackerOneEntryPerSlot(t *testing.T) {
	var tr ModifierTracker

	// The same physical key pressed twice (e.g. after a missed up) must not
	// produce two outstanding entries.
	tr.KeyDown(shiftDown("ShiftLeft"))
	tr.KeyDown(shiftDown("ShiftLeft"))

	var released []KeySample
	tr.ReleaseAll(func(s KeySample) { released = append(released, s) })
	assert.Len(t, released, 1)
}
