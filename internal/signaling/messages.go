package signaling

import "encoding/json"

// Message types for the signaling protocol.
const (
	TypeRegister     = "register"
	TypeRegistered   = "registered"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeICECandidate = "ice-candidate"
	TypePeerGone     = "peer-gone"
	TypePing         = "ping"
	TypePong         = "pong"
	TypeError        = "error"
)

// ClientType distinguishes the two ends of a session.
const (
	ClientTypeHost       = "host"
	ClientTypeController = "controller"
)

// Message is the envelope for all signaling traffic.
type Message struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	ClientType string          `json:"clientType,omitempty"`
	From       string          `json:"from,omitempty"`
	Target     string          `json:"target,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	PeerID     string          `json:"peerId,omitempty"`
	Msg        string          `json:"message,omitempty"`
}
