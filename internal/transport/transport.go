// Package transport carries serialized input events to the peer. The engine
// treats it as fire-and-forget: no retries, no backpressure.
package transport

import "github.com/google/uuid"

// MessageSender sends one serialized event for a session.
type MessageSender interface {
	SendMessage(sessionID uuid.UUID, payload []byte) error
}

// MessageReceiver receives serialized control messages from the peer, e.g.
// display geometry announcements.
type MessageReceiver interface {
	OnMessage(callback func(data []byte))
}
