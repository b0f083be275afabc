package vote

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nextlevelbuilder/thermovote/internal/intent"
)

var tracer = otel.Tracer("thermovote/vote")

// Machine runs polls. One instance serves the whole process; polls are keyed
// by chat ID, so chats are fully independent of each other.
type Machine struct {
	transport  Transport
	dispatcher Dispatcher
	duration   time.Duration

	mu     sync.Mutex
	active map[string]*Poll

	// baseCtx scopes timer-fired work. Timers are never cancelled by user
	// action; this only stops resolution during process shutdown.
	baseCtx context.Context
}

// NewMachine creates a poll machine. duration is the fixed voting window.
func NewMachine(ctx context.Context, transport Transport, dispatcher Dispatcher, duration time.Duration) *Machine {
	return &Machine{
		transport:  transport,
		dispatcher: dispatcher,
		duration:   duration,
		active:     make(map[string]*Poll),
		baseCtx:    ctx,
	}
}

// Active reports whether the chat currently has an open poll. The router
// uses this for its friendly pre-check; Open re-checks atomically, so a
// stale answer here costs nothing but a redundant call.
func (m *Machine) Active(chatID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[chatID] != nil
}

// Open claims the chat's active-poll slot, posts the poll message, seeds the
// two vote reactions, and schedules the single-shot resolve timer. Returns
// ErrPollActive when another poll holds the slot — including when two
// near-simultaneous messages race, in which case exactly one wins.
//
// Open returns as soon as the poll is posted; the vote window elapses
// entirely inside the timer.
func (m *Machine) Open(ctx context.Context, chatID string, i intent.Intent, requester string) (*Poll, error) {
	if i == intent.None {
		return nil, fmt.Errorf("cannot open a poll for intent %q", i)
	}

	ctx, span := tracer.Start(ctx, "vote.open")
	defer span.End()
	span.SetAttributes(
		attribute.String("chat_id", chatID),
		attribute.String("intent", i.String()),
	)

	poll := &Poll{
		ID:        uuid.New(),
		ChatID:    chatID,
		Intent:    i,
		Requester: requester,
		OpenedAt:  time.Now(),
		State:     Open,
	}

	// Claim the slot before posting. The claim and the occupancy check are
	// one critical section, which is what closes the double-open race.
	m.mu.Lock()
	if m.active[chatID] != nil {
		m.mu.Unlock()
		return nil, ErrPollActive
	}
	m.active[chatID] = poll
	m.mu.Unlock()

	text := fmt.Sprintf(
		"Temperature change requested by <@%s>: %s.\nVote with the reactions below — the poll closes in %d seconds.",
		requester, intent.Description(i), int(m.duration.Seconds()),
	)
	ref, err := m.transport.Post(ctx, chatID, text)
	if err != nil {
		m.release(chatID, poll)
		span.RecordError(err)
		return nil, fmt.Errorf("post poll message: %w", err)
	}
	poll.Ref = ref

	// Seed both vote options so voters only have to tap. A failed seed is
	// cosmetic: the tally subtracts one per kind with a floor of zero.
	for _, r := range []Reaction{Agree, Disagree} {
		if err := m.transport.AddReaction(ctx, ref, r); err != nil {
			slog.Warn("could not seed poll reaction", "chat_id", chatID, "reaction", r.String(), "error", err)
		}
	}

	time.AfterFunc(m.duration, func() { m.resolve(poll) })

	slog.Info("poll opened",
		"poll_id", poll.ID,
		"chat_id", chatID,
		"intent", i.String(),
		"requester", requester,
		"closes_in", m.duration,
	)
	return poll, nil
}

// release frees the slot if it is still held by this poll.
func (m *Machine) release(chatID string, poll *Poll) {
	m.mu.Lock()
	if m.active[chatID] == poll {
		delete(m.active, chatID)
	}
	m.mu.Unlock()
}

// resolve runs once per poll when its timer fires. It reads the reaction
// counts, frees the chat's slot, and only then reports the outcome and
// dispatches — a fresh request can open a new poll while the phone call for
// this one is still being placed.
func (m *Machine) resolve(poll *Poll) {
	ctx, span := tracer.Start(m.baseCtx, "vote.resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("poll_id", poll.ID.String()),
		attribute.String("chat_id", poll.ChatID),
	)

	counts, countErr := m.transport.ReactionCounts(ctx, poll.Ref)

	m.mu.Lock()
	poll.State = Resolved
	if m.active[poll.ChatID] == poll {
		delete(m.active, poll.ChatID)
	}
	m.mu.Unlock()

	if countErr != nil {
		// Tally errors are terminal for the poll: report and move on.
		span.RecordError(countErr)
		slog.Error("poll tally failed", "poll_id", poll.ID, "error", countErr)
		m.post(ctx, poll.ChatID, fmt.Sprintf(
			"I couldn't read the votes for the temperature poll (%v). No action taken — send another request to retry.",
			countErr,
		))
		return
	}

	tally := Tally{
		Agree:    seedAdjusted(counts[Agree]),
		Disagree: seedAdjusted(counts[Disagree]),
	}
	outcome := tally.Decide()
	span.SetAttributes(
		attribute.Int("tally.agree", tally.Agree),
		attribute.Int("tally.disagree", tally.Disagree),
	)
	slog.Info("poll resolved",
		"poll_id", poll.ID,
		"agree", tally.Agree,
		"disagree", tally.Disagree,
		"outcome", outcome,
	)

	switch outcome {
	case OutcomeNoVotes:
		m.post(ctx, poll.ChatID, "The temperature poll closed without any votes, so I'm leaving things as they are.")
	case OutcomeRejected:
		m.post(ctx, poll.ChatID, fmt.Sprintf(
			"The vote to %s did not pass (%d for, %d against). No call placed.",
			intent.Description(poll.Intent), tally.Agree, tally.Disagree,
		))
	case OutcomeApproved:
		m.dispatcher.Dispatch(ctx, poll.ChatID, poll.Intent, tally.Agree, tally.Disagree)
	}
}

// seedAdjusted removes the bot's own seeding reaction from a raw count.
func seedAdjusted(n int) int {
	if n <= 1 {
		return 0
	}
	return n - 1
}

func (m *Machine) post(ctx context.Context, chatID, text string) {
	if _, err := m.transport.Post(ctx, chatID, text); err != nil {
		slog.Warn("could not post poll outcome", "chat_id", chatID, "error", err)
	}
}
