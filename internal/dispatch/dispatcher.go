// Package dispatch turns an approved poll into exactly one external action:
// it invokes the call executor, records the cooldown on success, and reports
// the result back to the chat. Nothing here retries — a failed call is
// surfaced to the humans, who re-trigger by sending another request.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nextlevelbuilder/thermovote/internal/caller"
	"github.com/nextlevelbuilder/thermovote/internal/cooldown"
	"github.com/nextlevelbuilder/thermovote/internal/intent"
	"github.com/nextlevelbuilder/thermovote/internal/vote"
)

var tracer = otel.Tracer("thermovote/dispatch")

// Poster is the slice of the transport the dispatcher needs.
type Poster interface {
	Post(ctx context.Context, chatID, text string) (vote.MessageRef, error)
}

// Dispatcher executes approved poll outcomes. Implements vote.Dispatcher.
type Dispatcher struct {
	executor caller.Executor
	tracker  *cooldown.Tracker
	poster   Poster
	now      func() time.Time
}

// New creates a dispatcher.
func New(executor caller.Executor, tracker *cooldown.Tracker, poster Poster) *Dispatcher {
	return &Dispatcher{executor: executor, tracker: tracker, poster: poster, now: time.Now}
}

// Dispatch places the call for an approved poll. On success the cooldown is
// recorded at completion time and a confirmation naming the tally is posted.
// On failure the executor's detail is posted and the cooldown is left
// untouched, so a legitimate retry is not blocked.
func (d *Dispatcher) Dispatch(ctx context.Context, chatID string, i intent.Intent, agree, disagree int) {
	ctx, span := tracer.Start(ctx, "dispatch.call")
	defer span.End()
	span.SetAttributes(
		attribute.String("intent", i.String()),
		attribute.Int("tally.agree", agree),
		attribute.Int("tally.disagree", disagree),
	)

	result, err := d.executor.Execute(ctx, i)
	if err != nil {
		span.RecordError(err)
		slog.Error("action dispatch failed", "chat_id", chatID, "intent", i.String(), "error", err)
		d.post(ctx, chatID, fmt.Sprintf(
			"The vote passed (%d for, %d against), but I couldn't place the call: %v",
			agree, disagree, err,
		))
		return
	}

	d.tracker.RecordAction(d.now())
	slog.Info("action dispatched", "chat_id", chatID, "intent", i.String(), "call_id", result.CallID)
	d.post(ctx, chatID, fmt.Sprintf(
		"The vote passed (%d for, %d against) — I'm calling facilities to %s. Call %s initiated.",
		agree, disagree, intent.Description(i), result.CallID,
	))
}

func (d *Dispatcher) post(ctx context.Context, chatID, text string) {
	if _, err := d.poster.Post(ctx, chatID, text); err != nil {
		slog.Warn("could not post dispatch result", "chat_id", chatID, "error", err)
	}
}
