package channels

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/nextlevelbuilder/thermovote/internal/bus"
)

// Outbound posting is throttled per adapter so a burst of poll traffic never
// trips platform rate limits.
const (
	outboundPerSecond = 1
	outboundBurst     = 5
)

// BaseChannel carries the shared adapter state. Adapters embed it.
type BaseChannel struct {
	name    string
	bus     *bus.MessageBus
	running bool
	limiter *rate.Limiter
}

// NewBaseChannel creates the shared base for an adapter.
func NewBaseChannel(name string, msgBus *bus.MessageBus) *BaseChannel {
	return &BaseChannel{
		name:    name,
		bus:     msgBus,
		limiter: rate.NewLimiter(rate.Limit(outboundPerSecond), outboundBurst),
	}
}

// Name returns the adapter name.
func (c *BaseChannel) Name() string { return c.name }

// IsRunning reports whether the adapter is processing messages.
func (c *BaseChannel) IsRunning() bool { return c.running }

// SetRunning updates the running state.
func (c *BaseChannel) SetRunning(running bool) { c.running = running }

// WaitOutbound blocks until the outbound limiter admits one send.
func (c *BaseChannel) WaitOutbound(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// HandleMessage publishes an inbound chat event to the bus. This is the
// standard way for adapters to forward received messages.
func (c *BaseChannel) HandleMessage(chatID, senderID, text string, edited bool) {
	c.bus.PublishInbound(bus.InboundMessage{
		Channel:  c.name,
		ChatID:   chatID,
		SenderID: senderID,
		Text:     text,
		Edited:   edited,
	})
}
