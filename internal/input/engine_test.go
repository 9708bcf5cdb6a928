package input

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okjune/mirrorlink/internal/config"
)

// captureSender records every payload handed to the transport boundary.
type captureSender struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (c *captureSender) SendMessage(_ uuid.UUID, payload []byte) error {
	c.mu.Lock()
	c.payloads = append(c.payloads, payload)
	c.mu.Unlock()
	return nil
}

func (c *captureSender) reset() {
	c.mu.Lock()
	c.payloads = nil
	c.mu.Unlock()
}

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func (c *captureSender) last(t *testing.T) map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.payloads)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(c.payloads[len(c.payloads)-1], &msg))
	return msg
}

func testSession() config.Session {
	return config.Session{
		KeyboardMode:      config.KeyboardModeLegacy,
		PeerPlatform:      config.PeerLinux,
		PeerSupportsTouch: true,
		AllowKeyboard:     true,
		AllowMouse:        true,
		TrackpadSpeed:     1,
		LocalOS:           "linux",
	}
}

func testViewport() ViewportFunc {
	return func() Viewport {
		return Viewport{
			Scale:   1,
			CanvasW: 1920, CanvasH: 1080,
			Mode: ScrollModeFree,
			Rect: fullHD(),
		}
	}
}

func newTestEngine(t *testing.T, cfg config.Session) (*Engine, *captureSender) {
	t.Helper()
	sender := &captureSender{}
	e := New(uuid.New(), cfg, sender, testViewport(), zerolog.Nop())
	t.Cleanup(e.Close)
	return e, sender
}

func TestEngineMouseMove(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandlePointer(PointerSample{Kind: SampleMove, X: 50, Y: 50})
	msg := sender.last(t)
	assert.Equal(t, "move", msg["type"])
	assert.Equal(t, "50", msg["x"])
	assert.Equal(t, "50", msg["y"])
	assert.Equal(t, "", msg["buttons"])
	assert.NotContains(t, msg, "shift")
}

func TestEngineMouseDownUpZeroCoordinates(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandlePointer(PointerSample{Kind: SampleMove, X: 50, Y: 50})
	e.HandlePointer(PointerSample{Kind: SampleDown, X: 50, Y: 50, Buttons: ButtonPrimary})
	msg := sender.last(t)
	assert.Equal(t, "down", msg["type"])
	assert.Equal(t, "left", msg["buttons"])
	assert.Equal(t, "0", msg["x"])
	assert.Equal(t, "0", msg["y"])

	e.HandlePointer(PointerSample{Kind: SampleUp, X: 50, Y: 50, Buttons: ButtonPrimary})
	msg = sender.last(t)
	assert.Equal(t, "up", msg["type"])
	assert.Equal(t, "left", msg["buttons"])
}

func TestEngineImplicitTransitionFromMoveMask(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandlePointer(PointerSample{Kind: SampleMove, X: 50, Y: 50})
	e.HandlePointer(PointerSample{Kind: SampleMove, X: 51, Y: 50, Buttons: ButtonSecondary})
	msg := sender.last(t)
	assert.Equal(t, "down", msg["type"], "mask growth on a move becomes a down")
	assert.Equal(t, "right", msg["buttons"])
}

func TestEngineMousePermissionDenied(t *testing.T) {
	cfg := testSession()
	cfg.AllowMouse = false
	e, sender := newTestEngine(t, cfg)

	e.HandlePointer(PointerSample{Kind: SampleMove, X: 50, Y: 50})
	e.HandleWheel(0, 3)
	e.HandlePanUpdate(5, 5)
	assert.Zero(t, sender.count())
}

func TestEngineProtectedPointerDropped(t *testing.T) {
	e, sender := newTestEngine(t, testSession())
	e.SetProtected(true)

	e.HandlePointer(PointerSample{Kind: SampleMove, X: 500, Y: 500})
	assert.Zero(t, sender.count())

	// Releasing protection alone is not enough; a deliberate move is.
	e.SetProtected(false)
	e.HandlePointer(PointerSample{Kind: SampleMove, X: 501, Y: 501})
	assert.Zero(t, sender.count())
	e.HandlePointer(PointerSample{Kind: SampleMove, X: 600, Y: 600})
	assert.Equal(t, 1, sender.count())
}

func TestEngineProtectedDropsScrollAndGestures(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandlePointer(PointerSample{Kind: SampleMove, X: 50, Y: 50})
	sender.reset()
	e.SetProtected(true)

	e.HandleWheel(0, 3)
	e.HandlePanStart(60, 60)
	e.HandlePanUpdate(5, 5)
	e.HandlePanEnd(20, 20)
	e.HandleScale(12)
	assert.Zero(t, sender.count(), "protection covers scroll and gesture events")
	assert.False(t, e.momentum.Active(), "no fling may start while protected")
}

func TestEngineProtectionStopsRunningFling(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandlePanStart(50, 50)
	e.HandlePanUpdate(10, 10)
	e.HandlePanEnd(20, 20)
	require.True(t, e.momentum.Active())

	e.SetProtected(true)
	assert.False(t, e.momentum.Active())
	after := sender.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, sender.count(), "no emissions after protection engaged")
}

func TestEngineLegacyKey(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandleKey(KeySample{Down: true, Physical: "ShiftLeft", Logical: "Shift"})
	assert.Zero(t, sender.count(), "modifier keys ride on flags in legacy mode")

	e.HandleKey(KeySample{Down: true, Physical: "KeyA", Logical: "A", Label: "A"})
	msg := sender.last(t)
	assert.Equal(t, "a", msg["name"])
	assert.Equal(t, true, msg["down"])
	assert.Equal(t, false, msg["press"])
	assert.Equal(t, "true", msg["shift"])
	assert.NotContains(t, msg, "ctrl")
}

func TestEngineLegacyKeyRepeatBecomesPress(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandleKey(KeySample{Down: true, Repeat: true, Physical: "KeyA", Logical: "a", Label: "a"})
	msg := sender.last(t)
	assert.Equal(t, false, msg["down"])
	assert.Equal(t, true, msg["press"])
}

func TestEngineRawKeyMode(t *testing.T) {
	cfg := testSession()
	cfg.KeyboardMode = config.KeyboardModeMap
	cfg.LocalOS = "windows"
	e, sender := newTestEngine(t, cfg)

	e.HandleKey(KeySample{
		Down:     true,
		Physical: "KeyA",
		Logical:  "a",
		Label:    "a",
		ScanCode: 0x1E,
		KeyCode:  0x41,
		Locks:    LockState{Caps: true},
	})
	msg := sender.last(t)
	assert.Equal(t, "a", msg["name"])
	assert.EqualValues(t, 0x1E, msg["positionCode"])
	assert.EqualValues(t, 0x41, msg["platformCode"])
	assert.EqualValues(t, 1<<1, msg["lockModes"])
	assert.Equal(t, true, msg["down"])
	assert.NotContains(t, msg, "ctrl", "raw mode carries no modifier flags")
}

func TestEngineKeyboardPermissionDenied(t *testing.T) {
	cfg := testSession()
	cfg.AllowKeyboard = false
	e, sender := newTestEngine(t, cfg)

	e.HandleKey(KeySample{Down: true, Physical: "KeyA", Logical: "a"})
	assert.Zero(t, sender.count())
}

func TestEngineLeaveViewReleasesKeys(t *testing.T) {
	cfg := testSession()
	cfg.KeyboardMode = config.KeyboardModeMap
	e, sender := newTestEngine(t, cfg)

	e.HandleKey(KeySample{Down: true, Physical: "ShiftLeft", Logical: "Shift", ScanCode: 0x2A})
	before := sender.count()

	e.LeaveView()
	assert.Equal(t, before+1, sender.count(), "one synthetic up per held modifier")
	msg := sender.last(t)
	assert.Equal(t, false, msg["down"])
	assert.Equal(t, Modifiers{}, e.Modifiers())

	e.LeaveView()
	assert.Equal(t, before+1, sender.count(), "nothing left to release")
}

func TestEngineWheel(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	// Wheel events carry no position, so they cannot take control back;
	// a deliberate move has to grant it first.
	e.HandleWheel(0, -3)
	assert.Zero(t, sender.count())

	e.HandlePointer(PointerSample{Kind: SampleMove, X: 50, Y: 50})
	e.HandleWheel(0, -3)
	msg := sender.last(t)
	assert.Equal(t, "wheel", msg["type"])
	assert.Equal(t, "0", msg["x"])
	assert.Equal(t, "-3", msg["y"])
}

func TestEnginePanRoutingTouchPeer(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandlePanStart(50, 50)
	msg := sender.last(t)
	assert.Equal(t, "touch", msg["k"])

	e.HandlePanUpdate(4, 7)
	msg = sender.last(t)
	assert.Equal(t, "touch", msg["k"])
	v := msg["v"].(map[string]any)
	assert.Equal(t, "pan_update", v["t"])
	inner := v["v"].(map[string]any)
	assert.EqualValues(t, 4, inner["x"])
	assert.EqualValues(t, 7, inner["y"])

	e.HandlePanEnd(1, 1)
	msg = sender.last(t)
	v = msg["v"].(map[string]any)
	assert.Equal(t, "pan_end", v["t"])
}

func TestEnginePanRoutingLegacyPeer(t *testing.T) {
	cfg := testSession()
	cfg.PeerSupportsTouch = false
	e, sender := newTestEngine(t, cfg)

	e.HandlePanStart(50, 50)
	assert.Zero(t, sender.count(), "no touch events for a legacy peer")

	e.HandlePanUpdate(4, 7)
	msg := sender.last(t)
	assert.Equal(t, "trackpad", msg["type"])
	assert.Equal(t, "4", msg["x"])
	assert.Equal(t, "7", msg["y"])
}

func TestEngineScaleGesture(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandlePointer(PointerSample{Kind: SampleMove, X: 50, Y: 50})
	sender.reset()

	e.HandleScale(12)
	msg := sender.last(t)
	v := msg["v"].(map[string]any)
	assert.Equal(t, "scale", v["t"])
	assert.EqualValues(t, 12, v["v"])

	e.HandleScale(0)
	msg = sender.last(t)
	v = msg["v"].(map[string]any)
	assert.EqualValues(t, 0, v["v"])
}

func TestEngineFlingEmitsScrolls(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandlePanStart(50, 50)
	e.HandlePanUpdate(10, 10)
	e.HandlePanEnd(20, 20)

	deadline := time.Now().Add(5 * time.Second)
	for e.momentum.Active() {
		require.True(t, time.Now().Before(deadline), "fling did not terminate")
		time.Sleep(10 * time.Millisecond)
	}
	assert.Greater(t, sender.count(), 3, "fling keeps emitting after the gesture ended")
}

func TestEngineFlingKeepsModifiersFromGestureEnd(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandleKey(KeySample{Down: true, Physical: "ShiftLeft", Logical: "Shift"})
	e.HandlePanStart(50, 50)
	e.HandlePanUpdate(10, 10)
	e.HandlePanEnd(20, 20)

	// Releasing the modifier mid-fling must not retroactively change the
	// scrolls still coming out of the momentum sequence.
	e.HandleKey(KeySample{Down: false, Physical: "ShiftLeft", Logical: "Shift"})

	deadline := time.Now().Add(5 * time.Second)
	for e.momentum.Active() {
		require.True(t, time.Now().Before(deadline), "fling did not terminate")
		time.Sleep(10 * time.Millisecond)
	}
	msg := sender.last(t)
	v := msg["v"].(map[string]any)
	assert.Equal(t, "pan_update", v["t"])
	assert.Equal(t, "true", msg["shift"], "fling carries the flags as of gesture end")
}

func TestEngineLeaveViewLegacyModeSilent(t *testing.T) {
	e, sender := newTestEngine(t, testSession())

	e.HandleKey(KeySample{Down: true, Physical: "ShiftLeft", Logical: "Shift"})
	assert.Zero(t, sender.count())
	require.Equal(t, Modifiers{Shift: true}, e.Modifiers())

	// Legacy modifiers ride on the flags of other events, so the synthetic
	// releases have no wire form of their own; only the tracker clears.
	e.LeaveView()
	assert.Zero(t, sender.count())
	assert.Equal(t, Modifiers{}, e.Modifiers())
}

func TestEngineCloseIdempotent(t *testing.T) {
	cfg := testSession()
	cfg.KeyboardMode = config.KeyboardModeMap
	e, sender := newTestEngine(t, cfg)

	e.HandleKey(KeySample{Down: true, Physical: "MetaLeft", Logical: "Meta"})
	before := sender.count()

	e.Close()
	assert.Equal(t, before+1, sender.count())
	e.Close()
	assert.Equal(t, before+1, sender.count(), "second close releases nothing")
}
