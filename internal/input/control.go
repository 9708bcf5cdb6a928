package input

import "math"

// Local movement on either axis beyond this many pixels counts as a
// deliberate gesture to take pointer control back.
const takeControlThreshold = 12.0

// ControlArbiter decides per pointer sample whether the local side currently
// drives the remote pointer. While another party (or privacy mode) owns the
// cursor, small local movements are jitter and must not fight it; a large
// deliberate movement takes control back.
type ControlArbiter struct {
	protected  bool
	hasControl bool
	lastX      float64
	lastY      float64
}

// SetProtected engages or releases the external protection lock (e.g.
// privacy mode). Engaging it revokes control.
func (a *ControlArbiter) SetProtected(on bool) {
	a.protected = on
	if on {
		a.hasControl = false
	}
}

// Protected reports whether the protection lock is engaged.
func (a *ControlArbiter) Protected() bool {
	return a.protected
}

// HasControl reports whether the local side currently owns the pointer.
func (a *ControlArbiter) HasControl() bool {
	return a.hasControl
}

// ShouldDropStationary runs the arbitration for a positionless sample
// (wheel, gesture deltas). Without a position it cannot grant control, only
// honor the current ownership.
func (a *ControlArbiter) ShouldDropStationary() bool {
	return a.protected || !a.hasControl
}

// ShouldDrop runs the arbitration for one sample and reports whether it must
// be dropped. Position tracking stays current even for dropped samples, so
// this must be called for every pointer sample, hover included.
func (a *ControlArbiter) ShouldDrop(x, y float64) bool {
	if a.protected {
		a.lastX, a.lastY = x, y
		return true
	}
	if !a.hasControl {
		if math.Abs(x-a.lastX) > takeControlThreshold || math.Abs(y-a.lastY) > takeControlThreshold {
			a.hasControl = true
			return false
		}
		a.lastX, a.lastY = x, y
		return true
	}
	return false
}
