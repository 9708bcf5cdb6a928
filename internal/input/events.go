// Package input translates raw local pointer and keyboard events into the
// protocol messages describing remote input. One Engine exists per session
// and owns all mutable translation state for it.
package input

// SampleKind classifies a raw pointer sample as delivered by the local
// windowing system.
type SampleKind int

const (
	SampleMove SampleKind = iota
	SampleDown
	SampleUp
)

// Platform pointer button bitmask, as reported in pointer samples.
const (
	ButtonPrimary   = 1 << 0 // left
	ButtonSecondary = 1 << 1 // right
	ButtonMiddle    = 1 << 2 // wheel click
	ButtonBack      = 1 << 3
	ButtonForward   = 1 << 4
)

// PointerSample is one raw pointer update in local canvas coordinates.
type PointerSample struct {
	Kind    SampleKind
	X, Y    float64
	Buttons int
	// ExitHint marks a sample delivered as the pointer leaves the widget
	// while a drag is in progress.
	ExitHint bool
}

// Platform identifies the local operating system. It decides which native
// key fields carry the position code versus the platform code.
type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformWindows
	PlatformLinux
	PlatformMacOS
)

// PlatformFromOS maps a GOOS-style name to a Platform.
func PlatformFromOS(os string) Platform {
	switch os {
	case "windows":
		return PlatformWindows
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformMacOS
	}
	return PlatformUnknown
}

// PhysicalKey is the platform-independent physical key identity (the key's
// position on the board, e.g. "KeyA", "ShiftLeft").
type PhysicalKey string

// LogicalKey is the layout-resolved key identity (e.g. "a", "Shift").
type LogicalKey string

// LockState samples the keyboard lock toggles at event time.
type LockState struct {
	Caps   bool
	Num    bool
	Scroll bool
}

// Bits packs the lock state into the wire bitmask (bits 1..3).
func (l LockState) Bits() uint8 {
	var b uint8
	if l.Caps {
		b |= 1 << 1
	}
	if l.Num {
		b |= 1 << 2
	}
	if l.Scroll {
		b |= 1 << 3
	}
	return b
}

// KeySample is one raw keyboard event from the local windowing system.
// ScanCode and KeyCode carry the native fields as-is; their meaning is
// platform-dependent and resolved by positionalCodes.
type KeySample struct {
	Down     bool
	Repeat   bool
	Physical PhysicalKey
	Logical  LogicalKey
	// Label is the producing character or key label, possibly empty.
	Label    string
	ScanCode uint32
	KeyCode  uint32
	Locks    LockState
}
