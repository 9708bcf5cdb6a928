package input

import (
	"math"
	"sync"
	"time"
)

const (
	// A pan gesture whose final delta exceeds this on either axis starts a
	// fling.
	flingStartThreshold = 8.0
	flingFriction       = 0.97
	flingTick           = 10 * time.Millisecond

	cancelPollStep  = 5 * time.Millisecond
	cancelPollLimit = 40
)

// ScrollDelta is one integer trackpad scroll step.
type ScrollDelta struct {
	X, Y int
}

// Momentum simulates decaying trackpad momentum after a pan gesture ends.
// While a gesture is active it conditions raw per-update deltas; after the
// gesture ends with enough velocity it keeps emitting synthetic deltas on a
// timer until friction extinguishes them or a cancellation arrives.
//
// At most one fling sequence is active at a time; PanStart and PanEnd cancel
// and await any prior sequence before proceeding.
type Momentum struct {
	mu    sync.Mutex
	vx    float64
	vy    float64
	state flingState
	timer *time.Timer

	// speed is the peer-specific scroll multiplier. accumulate carries the
	// unsent fractional amount across updates for peers whose input stack
	// would otherwise round every scaled delta down to zero.
	speed      float64
	accumulate bool
	resX       float64
	resY       float64

	// emit is invoked with the internal lock held and must not call back
	// into Momentum.
	emit func(ScrollDelta)
}

type flingState struct {
	active bool
	stop   bool
}

// NewMomentum creates a momentum engine. A speed of zero or less means 1.
func NewMomentum(speed float64, accumulate bool, emit func(ScrollDelta)) *Momentum {
	if speed <= 0 {
		speed = 1
	}
	return &Momentum{speed: speed, accumulate: accumulate, emit: emit}
}

// Active reports whether a fling sequence is currently running.
func (m *Momentum) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.active
}

// PanStart begins a new gesture: any running fling is cancelled and the
// fractional residual is reset.
func (m *Momentum) PanStart() {
	m.CancelAndWait()
	m.mu.Lock()
	m.resX, m.resY = 0, 0
	m.mu.Unlock()
}

// PanUpdate conditions one raw gesture delta into an integer scroll step.
// Returns false when nothing should be sent for this update.
func (m *Momentum) PanUpdate(dx, dy float64) (ScrollDelta, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	x := int(dx)
	y := int(dy)
	// Keep directional intent at very low gesture speed: when both axes
	// truncate to zero but the finger did move, nudge the dominant axis.
	if x == 0 && y == 0 && (dx != 0 || dy != 0) {
		if math.Abs(dx) > math.Abs(dy) {
			x = sign(dx)
		} else {
			y = sign(dy)
		}
	}
	x, y = m.applySpeedLocked(x, y)
	if x == 0 && y == 0 {
		return ScrollDelta{}, false
	}
	return ScrollDelta{X: x, Y: y}, true
}

// PanEnd finishes a gesture. When the final delta is large enough on either
// axis, a fling sequence starts from that velocity.
func (m *Momentum) PanEnd(dx, dy float64) {
	if math.Abs(dx) <= flingStartThreshold && math.Abs(dy) <= flingStartThreshold {
		return
	}
	m.CancelAndWait()
	m.mu.Lock()
	m.vx, m.vy = dx, dy
	m.state = flingState{active: true}
	m.timer = time.AfterFunc(flingTick, m.tick)
	m.mu.Unlock()
}

// CancelAndWait requests a stop and waits, bounded, for a scheduled tick to
// observe it. Callers may tear the session down immediately afterwards.
func (m *Momentum) CancelAndWait() {
	m.mu.Lock()
	m.state.stop = true
	if m.timer != nil && m.timer.Stop() {
		// The pending tick will never run; nothing left to observe.
		m.state.active = false
	}
	active := m.state.active
	m.mu.Unlock()

	for i := 0; active && i < cancelPollLimit; i++ {
		time.Sleep(cancelPollStep)
		m.mu.Lock()
		active = m.state.active
		m.mu.Unlock()
	}
}

func (m *Momentum) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.stop {
		m.state.active = false
		return
	}

	m.vx *= flingFriction
	m.vy *= flingFriction
	x, y := m.applySpeedLocked(int(m.vx), int(m.vy))
	if x == 0 && y == 0 {
		m.state.active = false
		return
	}

	m.timer = time.AfterFunc(flingTick, m.tick)
	if m.emit != nil {
		m.emit(ScrollDelta{X: x, Y: y})
	}
}

func (m *Momentum) applySpeedLocked(x, y int) (int, int) {
	if m.accumulate {
		fx := float64(x)*m.speed + m.resX
		fy := float64(y)*m.speed + m.resY
		x = int(fx)
		y = int(fy)
		m.resX = fx - float64(x)
		m.resY = fy - float64(y)
		return x, y
	}
	if m.speed != 1 {
		x = int(float64(x) * m.speed)
		y = int(float64(y) * m.speed)
	}
	return x, y
}

func sign(f float64) int {
	if f > 0 {
		return 1
	}
	if f < 0 {
		return -1
	}
	return 0
}
