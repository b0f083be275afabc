// Package slack implements the transport adapter for Slack using Socket
// Mode, so no inbound webhook needs to be exposed. One channel is monitored
// per process, configured by name or ID.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/nextlevelbuilder/thermovote/internal/bus"
	"github.com/nextlevelbuilder/thermovote/internal/channels"
	"github.com/nextlevelbuilder/thermovote/internal/config"
	"github.com/nextlevelbuilder/thermovote/internal/vote"
)

// Slack's names for the conventional up/down vote pair. The rest of the
// system only ever sees vote.Agree / vote.Disagree.
var reactionNames = map[vote.Reaction]string{
	vote.Agree:    "+1",
	vote.Disagree: "-1",
}

// Channel connects to Slack via Socket Mode.
type Channel struct {
	*channels.BaseChannel
	api       *slack.Client
	sock      *socketmode.Client
	cfg       config.SlackConfig
	botUserID string // populated on Start
	chatID    string // resolved monitored channel ID
}

// New creates a Slack channel from config.
func New(cfg config.SlackConfig, msgBus *bus.MessageBus) (*Channel, error) {
	if cfg.BotToken == "" || cfg.AppToken == "" {
		return nil, fmt.Errorf("slack bot and app tokens are required")
	}
	api := slack.New(cfg.BotToken, slack.OptionAppLevelToken(cfg.AppToken))
	return &Channel{
		BaseChannel: channels.NewBaseChannel("slack", msgBus),
		api:         api,
		sock:        socketmode.New(api),
		cfg:         cfg,
	}, nil
}

// BotUserID returns the bot's own Slack user ID (after Start).
func (c *Channel) BotUserID() string { return c.botUserID }

// ChatID returns the resolved monitored channel ID (after Start).
func (c *Channel) ChatID() string { return c.chatID }

// Start authenticates, resolves the monitored channel, and begins the
// Socket Mode event loop on background goroutines.
func (c *Channel) Start(ctx context.Context) error {
	auth, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("slack auth test: %w", err)
	}
	c.botUserID = auth.UserID

	chatID, err := c.resolveChannelID(ctx)
	if err != nil {
		return err
	}
	c.chatID = chatID

	go c.eventLoop(ctx)
	go func() {
		if err := c.sock.RunContext(ctx); err != nil && ctx.Err() == nil {
			slog.Error("slack socket mode stopped", "error", err)
		}
	}()

	c.SetRunning(true)
	slog.Info("slack bot connected", "bot_user", auth.User, "bot_id", auth.UserID, "monitored_chat", chatID)
	return nil
}

// Stop marks the adapter stopped; the socket loop exits with its context.
func (c *Channel) Stop(_ context.Context) error {
	c.SetRunning(false)
	return nil
}

// eventLoop consumes Socket Mode events and forwards plain channel messages
// from the monitored chat to the bus.
func (c *Channel) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-c.sock.Events:
			if !ok {
				return
			}
			if evt.Type != socketmode.EventTypeEventsAPI {
				continue
			}
			apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
			if !ok {
				continue
			}
			if evt.Request != nil {
				c.sock.Ack(*evt.Request)
			}
			if apiEvent.Type != slackevents.CallbackEvent {
				continue
			}
			c.handleCallback(apiEvent)
		}
	}
}

func (c *Channel) handleCallback(apiEvent slackevents.EventsAPIEvent) {
	ev, ok := apiEvent.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		return
	}
	if ev.Channel != c.chatID {
		return
	}
	// Subtyped events are edits, joins, bot posts and the like: none of
	// them carry a new request. Plain new messages have an empty SubType.
	if ev.SubType != "" || ev.BotID != "" || ev.User == c.botUserID {
		return
	}
	c.HandleMessage(ev.Channel, ev.User, ev.Text, false)
}

// resolveChannelID turns the configured channel name into an ID, paging
// through the conversation list. A value that already looks like an ID is
// used as-is when no name matches.
func (c *Channel) resolveChannelID(ctx context.Context) (string, error) {
	name := strings.TrimPrefix(c.cfg.Channel, "#")
	if name == "" {
		name = config.DefaultChannelName
	}

	params := &slack.GetConversationsParameters{
		Limit: 200,
		Types: []string{"public_channel", "private_channel"},
	}
	for {
		chans, cursor, err := c.api.GetConversationsContext(ctx, params)
		if err != nil {
			return "", fmt.Errorf("list slack channels: %w", err)
		}
		for _, ch := range chans {
			if ch.Name == name || ch.ID == name {
				return ch.ID, nil
			}
		}
		if cursor == "" {
			break
		}
		params.Cursor = cursor
	}

	// Channel IDs start with C (public) or G (private/legacy).
	if strings.HasPrefix(name, "C") || strings.HasPrefix(name, "G") {
		return name, nil
	}
	return "", fmt.Errorf("slack channel %q not found", name)
}

// Post sends a message, throttled by the outbound limiter.
func (c *Channel) Post(ctx context.Context, chatID, text string) (vote.MessageRef, error) {
	if err := c.WaitOutbound(ctx); err != nil {
		return vote.MessageRef{}, err
	}
	_, ts, err := c.api.PostMessageContext(ctx, chatID, slack.MsgOptionText(text, false))
	if err != nil {
		return vote.MessageRef{}, fmt.Errorf("post slack message: %w", err)
	}
	// The message timestamp is Slack's message identifier.
	return vote.MessageRef{ChatID: chatID, ID: ts}, nil
}

// AddReaction seeds a vote reaction on a posted message.
func (c *Channel) AddReaction(ctx context.Context, ref vote.MessageRef, r vote.Reaction) error {
	if err := c.WaitOutbound(ctx); err != nil {
		return err
	}
	item := slack.NewRefToMessage(ref.ChatID, ref.ID)
	if err := c.api.AddReactionContext(ctx, reactionNames[r], item); err != nil {
		return fmt.Errorf("add slack reaction %q: %w", reactionNames[r], err)
	}
	return nil
}

// ReactionCounts reads the tracked vote reactions on a message. Untracked
// emoji are ignored.
func (c *Channel) ReactionCounts(ctx context.Context, ref vote.MessageRef) (map[vote.Reaction]int, error) {
	item := slack.NewRefToMessage(ref.ChatID, ref.ID)
	reactions, err := c.api.GetReactionsContext(ctx, item, slack.NewGetReactionsParameters())
	if err != nil {
		return nil, fmt.Errorf("get slack reactions: %w", err)
	}

	counts := make(map[vote.Reaction]int, 2)
	for _, reaction := range reactions {
		for kind, name := range reactionNames {
			if reaction.Name == name {
				counts[kind] = reaction.Count
			}
		}
	}
	return counts, nil
}
