// Package signaling implements the WebSocket client used to establish a
// session: registration plus offer/answer/ICE relay between the two peers.
package signaling

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler callbacks for incoming signaling messages.
type Handler struct {
	OnRegistered   func()
	OnAnswer       func(from string, payload json.RawMessage)
	OnICECandidate func(from string, payload json.RawMessage)
	OnPeerGone     func(peerID string)
	OnError        func(msg string)
}

// Client is a WebSocket signaling client.
type Client struct {
	url      string
	clientID string
	handler  Handler
	log      zerolog.Logger

	conn   *websocket.Conn
	mu     sync.Mutex
	done   chan struct{}
	closed bool
}

// NewClient creates a controller-side signaling client.
func NewClient(url, clientID string, handler Handler, logger zerolog.Logger) *Client {
	return &Client{
		url:      url,
		clientID: clientID,
		handler:  handler,
		log:      logger.With().Str("component", "signaling").Logger(),
		done:     make(chan struct{}),
	}
}

// Connect dials the signaling server, registers, and starts reading.
func (c *Client) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("signaling dial: %w", err)
	}
	c.conn = conn

	err = c.send(Message{
		Type:       TypeRegister,
		ID:         c.clientID,
		ClientType: ClientTypeController,
	})
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("signaling register: %w", err)
	}

	go c.readLoop()
	go c.pingLoop()
	return nil
}

// Close shuts down the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		c.conn.Close()
	}
}

// SendOffer sends an SDP offer to target.
func (c *Client) SendOffer(target string, payload json.RawMessage) error {
	return c.send(Message{Type: TypeOffer, Target: target, Payload: payload})
}

// SendICECandidate sends an ICE candidate to target.
func (c *Client) SendICECandidate(target string, payload json.RawMessage) error {
	return c.send(Message{Type: TypeICECandidate, Target: target, Payload: payload})
}

func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteJSON(msg)
}

func (c *Client) readLoop() {
	defer c.Close()
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn().Err(err).Msg("signaling read failed")
			}
			return
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg Message) {
	switch msg.Type {
	case TypeRegistered:
		if c.handler.OnRegistered != nil {
			c.handler.OnRegistered()
		}
	case TypeAnswer:
		if c.handler.OnAnswer != nil {
			c.handler.OnAnswer(msg.From, msg.Payload)
		}
	case TypeICECandidate:
		if c.handler.OnICECandidate != nil {
			c.handler.OnICECandidate(msg.From, msg.Payload)
		}
	case TypePeerGone:
		if c.handler.OnPeerGone != nil {
			c.handler.OnPeerGone(msg.PeerID)
		}
	case TypeError:
		if c.handler.OnError != nil {
			c.handler.OnError(msg.Msg)
		}
	case TypePong:
		// heartbeat response, nothing to do
	default:
		c.log.Debug().Str("type", msg.Type).Msg("unhandled signaling message")
	}
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			_ = c.send(Message{Type: TypePing})
		}
	}
}
