// Package router is the single entry point for inbound chat events. It
// classifies each plain message and decides, in a fixed priority order,
// whether to report an active cooldown, point at an existing poll, or open a
// new one.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nextlevelbuilder/thermovote/internal/bus"
	"github.com/nextlevelbuilder/thermovote/internal/cooldown"
	"github.com/nextlevelbuilder/thermovote/internal/intent"
	"github.com/nextlevelbuilder/thermovote/internal/vote"
)

var tracer = otel.Tracer("thermovote/router")

// Poster is the slice of the transport the router posts through.
type Poster interface {
	Post(ctx context.Context, chatID, text string) (vote.MessageRef, error)
}

// PollOpener is the slice of the poll machine the router drives.
type PollOpener interface {
	Active(chatID string) bool
	Open(ctx context.Context, chatID string, i intent.Intent, requester string) (*vote.Poll, error)
}

// Router routes inbound messages to the poll engine.
type Router struct {
	tracker *cooldown.Tracker
	polls   PollOpener
	poster  Poster
	botID   string // the transport's own user ID; its posts are ignored
	now     func() time.Time
}

// New creates a router. botID may be empty when the transport already
// filters the bot's own messages.
func New(tracker *cooldown.Tracker, polls PollOpener, poster Poster, botID string) *Router {
	return &Router{tracker: tracker, polls: polls, poster: poster, botID: botID, now: time.Now}
}

// OnMessage handles one inbound chat event. Only plain new messages are
// considered; edits, subtypes, and the bot's own posts are dropped before
// classification.
func (r *Router) OnMessage(ctx context.Context, msg bus.InboundMessage) {
	if msg.Edited || (r.botID != "" && msg.SenderID == r.botID) {
		return
	}

	detected := intent.Classify(msg.Text)
	if detected == intent.None {
		return
	}

	ctx, span := tracer.Start(ctx, "router.message")
	defer span.End()
	span.SetAttributes(
		attribute.String("chat_id", msg.ChatID),
		attribute.String("intent", detected.String()),
	)
	slog.Info("temperature request detected",
		"channel", msg.Channel,
		"chat_id", msg.ChatID,
		"sender", msg.SenderID,
		"intent", detected.String(),
	)

	// Cooldown outranks the poll check: a cooling-down channel never opens
	// a redundant poll.
	now := r.now()
	if r.tracker.IsCoolingDown(now) {
		r.post(ctx, msg.ChatID, fmt.Sprintf(
			"I noticed the temperature request, but a call was already made recently. Please wait %s before the next one can be placed.",
			waitPhrase(r.tracker.Remaining(now)),
		))
		return
	}

	if r.polls.Active(msg.ChatID) {
		r.post(ctx, msg.ChatID, "There's already a temperature poll running in this channel — add your vote there.")
		return
	}

	_, err := r.polls.Open(ctx, msg.ChatID, detected, msg.SenderID)
	if errors.Is(err, vote.ErrPollActive) {
		// Lost the race to a near-simultaneous request; same answer as the
		// pre-check above.
		r.post(ctx, msg.ChatID, "There's already a temperature poll running in this channel — add your vote there.")
		return
	}
	if err != nil {
		span.RecordError(err)
		slog.Error("could not open poll", "chat_id", msg.ChatID, "error", err)
	}
}

// waitPhrase renders a remaining wait as whole minutes, rounded down.
func waitPhrase(remaining time.Duration) string {
	minutes := int(remaining.Minutes())
	switch {
	case minutes <= 0:
		return "less than a minute"
	case minutes == 1:
		return "1 more minute"
	default:
		return fmt.Sprintf("%d more minutes", minutes)
	}
}

func (r *Router) post(ctx context.Context, chatID, text string) {
	if _, err := r.poster.Post(ctx, chatID, text); err != nil {
		slog.Warn("could not post router reply", "chat_id", chatID, "error", err)
	}
}
