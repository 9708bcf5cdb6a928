package config

import "runtime"

// KeyboardMode selects the keyboard translation strategy for a session.
type KeyboardMode string

const (
	// KeyboardModeLegacy sends named keys plus modifier flags.
	KeyboardModeLegacy KeyboardMode = "legacy"
	// KeyboardModeMap sends raw scan/virtual codes without modifier flags,
	// letting the peer resolve the layout itself.
	KeyboardModeMap KeyboardMode = "map"
)

// PeerPlatform identifies the operating system on the remote side.
type PeerPlatform string

const (
	PeerWindows PeerPlatform = "windows"
	PeerLinux   PeerPlatform = "linux"
	PeerMacOS   PeerPlatform = "macos"
	PeerAndroid PeerPlatform = "android"
)

// Session holds the per-session settings consumed by the input engine.
// It is read once at session setup; the engine caches what it needs.
type Session struct {
	KeyboardMode      KeyboardMode `help:"Keyboard translation mode." enum:"legacy,map" default:"legacy"`
	PeerPlatform      PeerPlatform `help:"Remote operating system." enum:"windows,linux,macos,android" default:"linux"`
	PeerSupportsTouch bool         `help:"Peer accepts touch/pan pointer events." default:"true" negatable:""`
	AllowKeyboard     bool         `help:"Forward keyboard input." default:"true" negatable:""`
	AllowMouse        bool         `help:"Forward pointer input." default:"true" negatable:""`
	TrackpadSpeed     float64      `help:"Trackpad scroll speed multiplier." default:"1.0"`

	// LocalOS overrides the detected local platform. Used by tests; the
	// zero value means runtime.GOOS.
	LocalOS string `kong:"-"`
}

// LocalPlatform returns the configured local OS, defaulting to runtime.GOOS.
func (s Session) LocalPlatform() string {
	if s.LocalOS != "" {
		return s.LocalOS
	}
	return runtime.GOOS
}
