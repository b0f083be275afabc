// Package bus decouples transport adapters from the message router.
// Channel goroutines publish inbound chat events; a single router worker
// consumes them, so poll bookkeeping sees one logical message stream while
// poll timers fire on their own goroutines.
package bus

import (
	"context"
	"log/slog"
)

// InboundMessage is a chat event received from a transport adapter.
type InboundMessage struct {
	Channel  string `json:"channel"`   // adapter name ("slack", "discord")
	ChatID   string `json:"chat_id"`   // platform channel/conversation ID
	SenderID string `json:"sender_id"` // platform user ID
	Text     string `json:"text"`
	Edited   bool   `json:"edited,omitempty"` // edit/subtype events carry no new request
}

const inboundBuffer = 256

// MessageBus carries inbound messages from adapters to the router worker.
type MessageBus struct {
	inbound chan InboundMessage
}

// New creates a message bus with a bounded inbound queue.
func New() *MessageBus {
	return &MessageBus{inbound: make(chan InboundMessage, inboundBuffer)}
}

// PublishInbound enqueues a message without blocking the adapter's event
// loop. When the queue is full the message is dropped and logged; chat
// delivery is at-least-once upstream, so a qualifying request can simply be
// re-sent by the user.
func (b *MessageBus) PublishInbound(msg InboundMessage) {
	select {
	case b.inbound <- msg:
	default:
		slog.Warn("inbound queue full, dropping message", "channel", msg.Channel, "chat_id", msg.ChatID)
	}
}

// ConsumeInbound blocks until a message is available or ctx is done.
// The second return is false when the context was cancelled.
func (b *MessageBus) ConsumeInbound(ctx context.Context) (InboundMessage, bool) {
	select {
	case msg := <-b.inbound:
		return msg, true
	case <-ctx.Done():
		return InboundMessage{}, false
	}
}
