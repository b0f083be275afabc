// Package vote owns the poll lifecycle: open a time-boxed reaction vote,
// tally it when the timer fires, and hand approved outcomes to the
// dispatcher. At most one poll is open per chat at any time.
package vote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nextlevelbuilder/thermovote/internal/intent"
)

// Reaction is an internal two-valued vote kind. Transport adapters translate
// it to their platform's emoji vocabulary; nothing else in the system knows
// the platform strings.
type Reaction int

const (
	Agree Reaction = iota
	Disagree
)

func (r Reaction) String() string {
	if r == Agree {
		return "agree"
	}
	return "disagree"
}

// MessageRef is an opaque handle to a posted message, used to seed and later
// read the vote reactions.
type MessageRef struct {
	ChatID string
	ID     string
}

// Transport is the slice of the messaging boundary the poll engine needs.
type Transport interface {
	Post(ctx context.Context, chatID, text string) (MessageRef, error)
	AddReaction(ctx context.Context, ref MessageRef, r Reaction) error
	ReactionCounts(ctx context.Context, ref MessageRef) (map[Reaction]int, error)
}

// Dispatcher receives the approved outcome of a poll.
type Dispatcher interface {
	Dispatch(ctx context.Context, chatID string, i intent.Intent, agree, disagree int)
}

// State is the poll lifecycle state. Resolved is terminal; a new vote means
// a new Poll.
type State int

const (
	Open State = iota
	Resolved
)

// Poll is one in-flight or just-resolved vote.
type Poll struct {
	ID        uuid.UUID
	ChatID    string
	Ref       MessageRef
	Intent    intent.Intent // Warmer or Cooler, never None
	Requester string
	OpenedAt  time.Time
	State     State // written only by the machine, under its lock
}

// Outcome is the tally decision for a resolved poll.
type Outcome int

const (
	OutcomeApproved Outcome = iota
	OutcomeRejected
	OutcomeNoVotes
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApproved:
		return "approved"
	case OutcomeRejected:
		return "rejected"
	case OutcomeNoVotes:
		return "no-votes"
	default:
		return "error"
	}
}

// Tally is the vote count after subtracting the bot's own seed reactions.
// Derived at resolve time, never stored.
type Tally struct {
	Agree    int
	Disagree int
}

// Decide applies the decision rule: no votes at all is NoVotes, a strict
// agree majority is Approved, and everything else (ties included) is
// Rejected.
func (t Tally) Decide() Outcome {
	switch {
	case t.Agree+t.Disagree == 0:
		return OutcomeNoVotes
	case t.Agree > t.Disagree:
		return OutcomeApproved
	default:
		return OutcomeRejected
	}
}

// ErrPollActive is returned by Open when the chat already has an open poll.
var ErrPollActive = errors.New("a poll is already open for this channel")
