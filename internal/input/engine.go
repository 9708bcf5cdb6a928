package input

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/okjune/mirrorlink/internal/config"
	"github.com/okjune/mirrorlink/internal/protocol"
)

// Sender forwards one serialized event to the peer for a session. It must
// not block; delivery and ordering beyond this point belong to the
// transport.
type Sender interface {
	SendMessage(sessionID uuid.UUID, payload []byte) error
}

// ViewportSource supplies the current canvas-to-remote geometry snapshot.
// Implemented by the canvas collaborator that owns scale, pan and the remote
// display rectangle.
type ViewportSource interface {
	Viewport() Viewport
}

// ViewportFunc adapts a function to a ViewportSource.
type ViewportFunc func() Viewport

// Viewport implements ViewportSource.
func (f ViewportFunc) Viewport() Viewport { return f() }

// Engine translates raw local input events into protocol messages for one
// session. All state is owned exclusively by the session's engine instance;
// calls are expected from the single event-delivery goroutine.
type Engine struct {
	sessionID uuid.UUID
	cfg       config.Session
	platform  Platform
	sender    Sender
	viewport  ViewportSource
	log       zerolog.Logger

	mods     ModifierTracker
	buttons  ButtonTracker
	control  ControlArbiter
	momentum *Momentum

	// flingMods is the modifier snapshot taken when a fling starts. The
	// momentum timer goroutine reads it instead of the live tracker, which
	// only the event goroutine may touch. Written solely after
	// CancelAndWait has silenced any prior sequence.
	flingMods protocol.Modifiers

	closed bool
}

// New creates the translation engine for a session.
func New(sessionID uuid.UUID, cfg config.Session, sender Sender, vp ViewportSource, logger zerolog.Logger) *Engine {
	e := &Engine{
		sessionID: sessionID,
		cfg:       cfg,
		platform:  PlatformFromOS(cfg.LocalPlatform()),
		sender:    sender,
		viewport:  vp,
		log:       logger.With().Str("session", sessionID.String()).Logger(),
	}
	speed := cfg.TrackpadSpeed
	// The windows input stack rounds small scaled deltas to zero, so the
	// unsent fraction is carried across updates for that peer.
	accumulate := cfg.PeerPlatform == config.PeerWindows
	e.momentum = NewMomentum(speed, accumulate, e.emitFling)
	return e
}

// SetProtected engages or releases pointer protection (privacy mode).
// Engaging it also extinguishes any running momentum sequence, so a fling
// cannot keep scrolling a protected screen.
func (e *Engine) SetProtected(on bool) {
	e.control.SetProtected(on)
	if on {
		e.momentum.CancelAndWait()
	}
}

// Modifiers returns the current modifier flags.
func (e *Engine) Modifiers() Modifiers {
	return e.mods.Flags()
}

// HandlePointer translates one raw pointer sample. Samples are dropped when
// mouse forwarding is off, control arbitration rejects them, or the viewport
// cannot map them.
func (e *Engine) HandlePointer(s PointerSample) {
	if !e.cfg.AllowMouse {
		return
	}
	if e.control.ShouldDrop(s.X, s.Y) {
		return
	}
	kind, mask := e.buttons.Classify(s.Kind, s.Buttons)
	pt, ok := e.viewport.Viewport().MapToRemote(s.X, s.Y, kind, mask, s.ExitHint)
	if !ok {
		e.log.Trace().Float64("x", s.X).Float64("y", s.Y).Msg("pointer sample dropped")
		return
	}

	var t protocol.MouseEventType
	buttons := ""
	switch kind {
	case SampleDown:
		t = protocol.MouseDown
		buttons = buttonName(mask)
	case SampleUp:
		t = protocol.MouseUp
		buttons = buttonName(mask)
	default:
		t = protocol.MouseMove
		buttons = buttonName(mask)
	}
	payload, err := protocol.EncodeMouse(t, pt.X, pt.Y, buttons, e.wireModifiers())
	if err != nil {
		e.log.Debug().Err(err).Msg("encode mouse event")
		return
	}
	e.send(payload)
}

// HandleWheel translates a discrete wheel event. Deltas go out unmapped; the
// peer scrolls whatever is under its cursor.
func (e *Engine) HandleWheel(dx, dy int) {
	if !e.cfg.AllowMouse {
		return
	}
	if e.control.ShouldDropStationary() {
		return
	}
	payload, err := protocol.EncodeMouse(protocol.MouseWheel, dx, dy, protocol.ButtonWheel, e.wireModifiers())
	if err != nil {
		e.log.Debug().Err(err).Msg("encode wheel event")
		return
	}
	e.send(payload)
}

// HandlePanStart begins a trackpad pan gesture at a local position. Any
// running fling is cancelled first.
func (e *Engine) HandlePanStart(x, y float64) {
	if !e.cfg.AllowMouse {
		return
	}
	if e.control.ShouldDrop(x, y) {
		return
	}
	e.momentum.PanStart()
	if !e.cfg.PeerSupportsTouch {
		return
	}
	pt, ok := e.viewport.Viewport().MapToRemote(x, y, SampleMove, 0, false)
	if !ok {
		return
	}
	payload, err := protocol.EncodeTouchPan(protocol.PanStart, pt.X, pt.Y, e.wireModifiers())
	if err != nil {
		return
	}
	e.send(payload)
}

// HandlePanUpdate forwards one raw pan delta, conditioned by the momentum
// engine (low-speed nudge, peer speed factor, residual carry).
func (e *Engine) HandlePanUpdate(dx, dy float64) {
	if !e.cfg.AllowMouse {
		return
	}
	if e.control.ShouldDropStationary() {
		return
	}
	d, ok := e.momentum.PanUpdate(dx, dy)
	if !ok {
		return
	}
	e.sendScroll(protocol.PanUpdate, d)
}

// HandlePanEnd finishes the gesture and, with enough final velocity, starts
// the momentum sequence.
func (e *Engine) HandlePanEnd(dx, dy float64) {
	if !e.cfg.AllowMouse {
		return
	}
	if e.control.ShouldDropStationary() {
		return
	}
	if e.cfg.PeerSupportsTouch {
		payload, err := protocol.EncodeTouchPan(protocol.PanEnd, int(dx), int(dy), e.wireModifiers())
		if err == nil {
			e.send(payload)
		}
	}
	// Silence any prior sequence before touching the snapshot the timer
	// goroutine reads, then arm the fling with the flags as of gesture end.
	e.momentum.CancelAndWait()
	e.flingMods = e.wireModifiers()
	e.momentum.PanEnd(dx, dy)
}

// HandleScale forwards a pinch gesture delta; zero terminates the gesture.
func (e *Engine) HandleScale(scale int) {
	if !e.cfg.AllowMouse || !e.cfg.PeerSupportsTouch {
		return
	}
	if e.control.ShouldDropStationary() {
		return
	}
	payload, err := protocol.EncodeTouchScale(scale, e.wireModifiers())
	if err != nil {
		return
	}
	e.send(payload)
}

// HandleKey translates one raw keyboard event using the session's keyboard
// mode. Modifier bookkeeping happens regardless of mode.
func (e *Engine) HandleKey(s KeySample) {
	if !e.cfg.AllowKeyboard {
		return
	}
	if s.Down {
		e.mods.KeyDown(s)
	} else {
		e.mods.KeyUp(s)
	}
	e.translateKey(s)
}

func (e *Engine) translateKey(s KeySample) {
	switch e.cfg.KeyboardMode {
	case config.KeyboardModeMap:
		e.sendRawKey(s)
	default:
		e.sendLegacyKey(s)
	}
}

func (e *Engine) sendLegacyKey(s KeySample) {
	// Modifier keys ride on the flags of other events in legacy mode.
	if isModifierKey(s) {
		return
	}
	name := legacyKeyName(s)
	if name == "" {
		return
	}
	down := s.Down && !s.Repeat
	press := s.Down && s.Repeat
	payload, err := protocol.EncodeLegacyKey(name, down, press, e.wireModifiers())
	if err != nil {
		e.log.Debug().Err(err).Msg("encode key event")
		return
	}
	e.send(payload)
}

func (e *Engine) sendRawKey(s KeySample) {
	positionCode, platformCode := positionalCodes(e.platform, s)
	payload, err := protocol.EncodeRawKey(s.Label, platformCode, positionCode, s.Locks.Bits(), s.Down)
	if err != nil {
		e.log.Debug().Err(err).Msg("encode raw key event")
		return
	}
	e.send(payload)
}

// EnterView resets button tracking when the pointer enters the remote view.
func (e *Engine) EnterView() {
	e.buttons.Reset()
}

// LeaveView flushes outstanding modifier keys and stops any momentum. Called
// when pointer or keyboard focus leaves the remote view.
func (e *Engine) LeaveView() {
	e.releaseAllKeys()
	e.momentum.CancelAndWait()
}

// Close tears the engine down: outstanding keys are released before anything
// else, then the momentum timer is cancelled and awaited. Idempotent.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.releaseAllKeys()
	e.momentum.CancelAndWait()
}

func (e *Engine) releaseAllKeys() {
	e.mods.ReleaseAll(func(s KeySample) {
		e.translateKey(s)
	})
}

// emitFling runs on the momentum timer goroutine and must only touch
// immutable engine state plus the pre-armed modifier snapshot.
func (e *Engine) emitFling(d ScrollDelta) {
	e.sendScrollWith(protocol.PanUpdate, d, e.flingMods)
}

func (e *Engine) sendScroll(panType string, d ScrollDelta) {
	e.sendScrollWith(panType, d, e.wireModifiers())
}

// sendScrollWith routes a scroll step: touch-capable peers get pan pointer
// events, others a trackpad mouse event carrying the same delta.
func (e *Engine) sendScrollWith(panType string, d ScrollDelta, mods protocol.Modifiers) {
	var payload []byte
	var err error
	if e.cfg.PeerSupportsTouch {
		payload, err = protocol.EncodeTouchPan(panType, d.X, d.Y, mods)
	} else {
		payload, err = protocol.EncodeMouse(protocol.MouseTrackpad, d.X, d.Y, "", mods)
	}
	if err != nil {
		e.log.Debug().Err(err).Msg("encode scroll event")
		return
	}
	e.send(payload)
}

func (e *Engine) send(payload []byte) {
	if err := e.sender.SendMessage(e.sessionID, payload); err != nil {
		// Fire-and-forget: a lost sample is corrected by the next one.
		e.log.Debug().Err(err).Msg("drop input event")
	}
}

func (e *Engine) wireModifiers() protocol.Modifiers {
	f := e.mods.Flags()
	return protocol.Modifiers{
		Ctrl:    f.Ctrl,
		Shift:   f.Shift,
		Alt:     f.Alt,
		Command: f.Command,
	}
}

// buttonName resolves the wire name for the dominant button in a mask.
func buttonName(mask int) string {
	switch {
	case mask&ButtonPrimary != 0:
		return protocol.ButtonLeft
	case mask&ButtonSecondary != 0:
		return protocol.ButtonRight
	case mask&ButtonMiddle != 0:
		return protocol.ButtonWheel
	case mask&ButtonBack != 0:
		return protocol.ButtonBack
	case mask&ButtonForward != 0:
		return protocol.ButtonForward
	}
	return ""
}
