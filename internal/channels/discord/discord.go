// Package discord implements the transport adapter for Discord gateway
// events. Reaction votes use the conventional thumbs pair.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/nextlevelbuilder/thermovote/internal/bus"
	"github.com/nextlevelbuilder/thermovote/internal/channels"
	"github.com/nextlevelbuilder/thermovote/internal/config"
	"github.com/nextlevelbuilder/thermovote/internal/vote"
)

var reactionEmoji = map[vote.Reaction]string{
	vote.Agree:    "👍",
	vote.Disagree: "👎",
}

// Channel connects to Discord via the Bot API using gateway events.
type Channel struct {
	*channels.BaseChannel
	session   *discordgo.Session
	cfg       config.DiscordConfig
	botUserID string // populated on Start
}

// New creates a Discord channel from config.
func New(cfg config.DiscordConfig, msgBus *bus.MessageBus) (*Channel, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	return &Channel{
		BaseChannel: channels.NewBaseChannel("discord", msgBus),
		session:     session,
		cfg:         cfg,
	}, nil
}

// BotUserID returns the bot's own Discord user ID (after Start).
func (c *Channel) BotUserID() string { return c.botUserID }

// Start opens the gateway connection and begins receiving events. Only
// MessageCreate is handled: edits arrive as MessageUpdate and are therefore
// never seen by the router.
func (c *Channel) Start(_ context.Context) error {
	c.session.AddHandler(c.handleMessage)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	user, err := c.session.User("@me")
	if err != nil {
		c.session.Close()
		return fmt.Errorf("fetch discord bot identity: %w", err)
	}
	c.botUserID = user.ID

	c.SetRunning(true)
	slog.Info("discord bot connected", "username", user.Username, "id", user.ID, "monitored_chat", c.cfg.ChannelID)
	return nil
}

// Stop closes the gateway connection.
func (c *Channel) Stop(_ context.Context) error {
	c.SetRunning(false)
	return c.session.Close()
}

func (c *Channel) handleMessage(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.ChannelID != c.cfg.ChannelID {
		return
	}
	if m.Author == nil || m.Author.Bot || m.Author.ID == c.botUserID {
		return
	}
	c.HandleMessage(m.ChannelID, m.Author.ID, m.Content, false)
}

// Post sends a message, throttled by the outbound limiter.
func (c *Channel) Post(ctx context.Context, chatID, text string) (vote.MessageRef, error) {
	if err := c.WaitOutbound(ctx); err != nil {
		return vote.MessageRef{}, err
	}
	msg, err := c.session.ChannelMessageSend(chatID, text)
	if err != nil {
		return vote.MessageRef{}, fmt.Errorf("post discord message: %w", err)
	}
	return vote.MessageRef{ChatID: chatID, ID: msg.ID}, nil
}

// AddReaction seeds a vote reaction on a posted message.
func (c *Channel) AddReaction(ctx context.Context, ref vote.MessageRef, r vote.Reaction) error {
	if err := c.WaitOutbound(ctx); err != nil {
		return err
	}
	if err := c.session.MessageReactionAdd(ref.ChatID, ref.ID, reactionEmoji[r]); err != nil {
		return fmt.Errorf("add discord reaction %q: %w", reactionEmoji[r], err)
	}
	return nil
}

// ReactionCounts re-fetches the message and reads the tracked reactions.
func (c *Channel) ReactionCounts(_ context.Context, ref vote.MessageRef) (map[vote.Reaction]int, error) {
	msg, err := c.session.ChannelMessage(ref.ChatID, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("get discord message: %w", err)
	}

	counts := make(map[vote.Reaction]int, 2)
	for _, reaction := range msg.Reactions {
		if reaction == nil || reaction.Emoji == nil {
			continue
		}
		for kind, emoji := range reactionEmoji {
			if reaction.Emoji.Name == emoji {
				counts[kind] = reaction.Count
			}
		}
	}
	return counts, nil
}
