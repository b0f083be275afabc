// Package channels provides the transport abstraction over chat platforms.
// An adapter delivers inbound messages to the bus and exposes the small
// outbound surface the poll engine needs: post a message, add a reaction,
// read reaction counts. Vote reaction kinds stay internal; each adapter owns
// the translation to its platform's emoji vocabulary.
package channels

import (
	"context"

	"github.com/nextlevelbuilder/thermovote/internal/vote"
)

// Channel is the interface every platform adapter satisfies. Its outbound
// methods make a Channel a vote.Transport.
type Channel interface {
	// Name returns the adapter identifier (e.g. "slack", "discord").
	Name() string

	// Start begins delivering inbound messages. Non-blocking after setup.
	Start(ctx context.Context) error

	// Stop shuts the adapter down.
	Stop(ctx context.Context) error

	// BotUserID returns the platform user ID the adapter posts as,
	// available after Start. The router drops messages from this ID.
	BotUserID() string

	Post(ctx context.Context, chatID, text string) (vote.MessageRef, error)
	AddReaction(ctx context.Context, ref vote.MessageRef, r vote.Reaction) error
	ReactionCounts(ctx context.Context, ref vote.MessageRef) (map[vote.Reaction]int, error)

	IsRunning() bool
}
