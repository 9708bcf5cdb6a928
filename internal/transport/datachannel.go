package transport

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
)

// DataChannel implements input-event transport over a WebRTC DataChannel.
type DataChannel struct {
	dc        *webrtc.DataChannel
	onMessage func(data []byte)
}

// NewDataChannel wraps an input DataChannel. The channel may arrive later
// via SetChannel when the peer opens negotiated channels.
func NewDataChannel(dc *webrtc.DataChannel) *DataChannel {
	t := &DataChannel{}
	if dc != nil {
		t.SetChannel(dc)
	}
	return t
}

// SendMessage forwards one serialized event. Fire-and-forget: an error means
// the event is lost, which the input layer tolerates.
func (t *DataChannel) SendMessage(_ uuid.UUID, payload []byte) error {
	if t.dc == nil {
		return fmt.Errorf("input data channel not set")
	}
	return t.dc.Send(payload)
}

// OnMessage registers the callback for messages arriving from the peer.
func (t *DataChannel) OnMessage(cb func(data []byte)) {
	t.onMessage = cb
}

// SetChannel sets or replaces the underlying DataChannel.
func (t *DataChannel) SetChannel(dc *webrtc.DataChannel) {
	t.dc = dc
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if t.onMessage != nil {
			t.onMessage(msg.Data)
		}
	})
}
