package input

import "math"

// ScrollMode selects how the canvas pans over a zoomed image.
type ScrollMode int

const (
	// ScrollModeScrollbar positions the image from scrollbar fractions and
	// centers it when the canvas is larger than the image.
	ScrollModeScrollbar ScrollMode = iota
	// ScrollModeFree positions the image from a freely dragged pan offset.
	ScrollModeFree
)

// DisplayRect is the remote display rectangle in absolute remote-screen
// coordinates. Multi-display layouts give each display its own origin.
type DisplayRect struct {
	X, Y, W, H float64
}

// RemotePoint is a mapped remote-screen pixel coordinate.
type RemotePoint struct {
	X, Y int
}

const (
	// Distance from the right/bottom canvas edge within which the sub-100%
	// correction step applies, in local pixels.
	edgeStepThreshold = 3.0
	// Mapped coordinates within this many pixels outside the remote
	// rectangle are snapped back onto its edge.
	clampTolerance = 5
)

// Viewport is the geometry snapshot a pointer sample is mapped against.
// Supplied by the canvas collaborator; read-only here. A nil Rect means the
// display information has not arrived yet and samples are dropped.
type Viewport struct {
	Scale            float64
	OffsetX, OffsetY float64 // canvas-to-window-edge offset
	PanX, PanY       float64 // free-mode pan offset
	ScrollX, ScrollY float64 // scrollbar-mode scroll fractions
	CanvasW, CanvasH float64
	Mode             ScrollMode
	Rect             *DisplayRect
}

// MapToRemote converts a local canvas coordinate into a remote-screen pixel.
// Returns false when the sample must be dropped: geometry not ready,
// non-finite result, or out of range. A primary-button release is let through
// even when it lands outside the rectangle, so a drag that ends off-screen
// still produces its release.
func (v Viewport) MapToRemote(x, y float64, kind SampleKind, buttons int, exitHint bool) (RemotePoint, bool) {
	if v.Rect == nil || v.Rect.W <= 0 || v.Rect.H <= 0 || v.Scale <= 0 {
		return RemotePoint{}, false
	}
	rect := *v.Rect

	x -= v.OffsetX
	y -= v.OffsetY
	nearRight := v.CanvasW-x < edgeStepThreshold
	nearBottom := v.CanvasH-y < edgeStepThreshold

	if v.Mode == ScrollModeScrollbar {
		imgW := rect.W * v.Scale
		imgH := rect.H * v.Scale
		x += imgW * v.ScrollX
		y += imgH * v.ScrollY
		if v.CanvasW > imgW {
			x -= (v.CanvasW - imgW) / 2
		}
		if v.CanvasH > imgH {
			y -= (v.CanvasH - imgH) / 2
		}
	} else {
		x -= v.PanX
		y -= v.PanY
	}

	x /= v.Scale
	y /= v.Scale

	// Below 100% zoom one local pixel covers several remote pixels; without
	// this step the last remote row/column is unreachable.
	if v.Scale < 1 {
		step := 1/v.Scale - 1
		if nearRight {
			x += step
		}
		if nearBottom {
			y += step
		}
	}

	x += rect.X
	y += rect.Y

	if exitHint {
		// Letting go at the widget edge keeps the drag pinned to the
		// nearest screen edge.
		x, y = rect.snapToNearestEdge(x, y)
	}

	if !isFinite(x) || !isFinite(y) {
		return RemotePoint{}, false
	}
	xi := int(math.Round(x))
	yi := int(math.Round(y))

	minX, maxX := int(rect.X), int(rect.X+rect.W)-1
	minY, maxY := int(rect.Y), int(rect.Y+rect.H)-1
	xi = tolerantClamp(xi, minX, maxX)
	yi = tolerantClamp(yi, minY, maxY)

	if xi < minX || xi > maxX || yi < minY || yi > maxY {
		if !(kind == SampleUp && buttons&ButtonPrimary != 0) {
			return RemotePoint{}, false
		}
	}
	return RemotePoint{X: xi, Y: yi}, true
}

// snapToNearestEdge assigns the coordinate on the axis whose edge is strictly
// nearer than the other three.
func (r DisplayRect) snapToNearestEdge(x, y float64) (float64, float64) {
	left := x - r.X
	right := r.X + r.W - 1 - x
	top := y - r.Y
	bottom := r.Y + r.H - 1 - y
	switch {
	case left < right && left < top && left < bottom:
		x = r.X
	case right < left && right < top && right < bottom:
		x = r.X + r.W - 1
	}
	switch {
	case top < left && top < right && top < bottom:
		y = r.Y
	case bottom < left && bottom < right && bottom < top:
		y = r.Y + r.H - 1
	}
	return x, y
}

func tolerantClamp(v, lo, hi int) int {
	if v < lo && v >= lo-clampTolerance {
		return lo
	}
	if v > hi && v <= hi+clampTolerance {
		return hi
	}
	return v
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
