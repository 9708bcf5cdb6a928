package peer

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"github.com/okjune/mirrorlink/internal/signaling"
	"github.com/okjune/mirrorlink/internal/transport"
)

// Controller manages the controller side of the WebRTC connection: it offers
// to the host and adopts the input data channel the host opens.
type Controller struct {
	pc        *webrtc.PeerConnection
	sig       *signaling.Client
	transport *transport.DataChannel
	hostID    string
	log       zerolog.Logger
}

// NewController creates a Controller peer manager.
func NewController(sig *signaling.Client, hostID string, logger zerolog.Logger) (*Controller, error) {
	logger = logger.With().Str("component", "peer").Logger()
	pc, err := NewPeerConnection(logger)
	if err != nil {
		return nil, err
	}

	ctrl := &Controller{
		pc:        pc,
		sig:       sig,
		transport: transport.NewDataChannel(nil),
		hostID:    hostID,
		log:       logger,
	}

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != "input" {
			ctrl.log.Debug().Str("label", dc.Label()).Msg("ignoring data channel")
			return
		}
		dc.OnOpen(func() {
			ctrl.log.Info().Msg("input data channel open")
		})
		ctrl.transport.SetChannel(dc)
	})

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		data, err := json.Marshal(c.ToJSON())
		if err != nil {
			ctrl.log.Warn().Err(err).Msg("marshal ICE candidate")
			return
		}
		_ = sig.SendICECandidate(hostID, data)
	})

	return ctrl, nil
}

// Transport returns the input-event transport.
func (c *Controller) Transport() *transport.DataChannel {
	return c.transport
}

// Connect initiates the WebRTC connection by creating and sending an offer.
func (c *Controller) Connect() error {
	offer, err := c.pc.CreateOffer(nil)
	if err != nil {
		return err
	}
	if err := c.pc.SetLocalDescription(offer); err != nil {
		return err
	}
	offerJSON, err := json.Marshal(offer)
	if err != nil {
		return err
	}
	return c.sig.SendOffer(c.hostID, offerJSON)
}

// HandleAnswer processes an incoming SDP answer.
func (c *Controller) HandleAnswer(payload json.RawMessage) error {
	var answer webrtc.SessionDescription
	if err := json.Unmarshal(payload, &answer); err != nil {
		return err
	}
	return c.pc.SetRemoteDescription(answer)
}

// HandleICECandidate adds a remote ICE candidate.
func (c *Controller) HandleICECandidate(payload json.RawMessage) error {
	var candidate webrtc.ICECandidateInit
	if err := json.Unmarshal(payload, &candidate); err != nil {
		return err
	}
	return c.pc.AddICECandidate(candidate)
}

// Close shuts down the peer connection.
func (c *Controller) Close() {
	if c.pc != nil {
		c.pc.Close()
	}
}
