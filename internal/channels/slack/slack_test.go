package slack

import (
	"context"
	"testing"
	"time"

	"github.com/slack-go/slack/slackevents"

	"github.com/nextlevelbuilder/thermovote/internal/bus"
	"github.com/nextlevelbuilder/thermovote/internal/channels"
	"github.com/nextlevelbuilder/thermovote/internal/vote"
)

func TestReactionVocabulary(t *testing.T) {
	if reactionNames[vote.Agree] != "+1" || reactionNames[vote.Disagree] != "-1" {
		t.Errorf("unexpected reaction vocabulary: %v", reactionNames)
	}
}

func newTestChannel(b *bus.MessageBus) *Channel {
	return &Channel{
		BaseChannel: channels.NewBaseChannel("slack", b),
		chatID:      "C100",
		botUserID:   "UBOT",
	}
}

func callback(ev *slackevents.MessageEvent) slackevents.EventsAPIEvent {
	return slackevents.EventsAPIEvent{
		Type:       slackevents.CallbackEvent,
		InnerEvent: slackevents.EventsAPIInnerEvent{Data: ev},
	}
}

func expectMessage(t *testing.T, b *bus.MessageBus) bus.InboundMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, ok := b.ConsumeInbound(ctx)
	if !ok {
		t.Fatal("expected an inbound message on the bus")
	}
	return msg
}

func expectNoMessage(t *testing.T, b *bus.MessageBus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if msg, ok := b.ConsumeInbound(ctx); ok {
		t.Fatalf("expected no inbound message, got %+v", msg)
	}
}

func TestHandleCallbackForwardsPlainMessages(t *testing.T) {
	b := bus.New()
	c := newTestChannel(b)

	c.handleCallback(callback(&slackevents.MessageEvent{
		Channel: "C100", User: "U1", Text: "it's freezing in here",
	}))

	msg := expectMessage(t, b)
	if msg.Channel != "slack" || msg.ChatID != "C100" || msg.SenderID != "U1" {
		t.Errorf("unexpected inbound message: %+v", msg)
	}
}

func TestHandleCallbackFilters(t *testing.T) {
	b := bus.New()
	c := newTestChannel(b)

	// Wrong channel.
	c.handleCallback(callback(&slackevents.MessageEvent{Channel: "C999", User: "U1", Text: "cold"}))
	// Edited message (subtype).
	c.handleCallback(callback(&slackevents.MessageEvent{Channel: "C100", User: "U1", Text: "cold", SubType: "message_changed"}))
	// Bot post.
	c.handleCallback(callback(&slackevents.MessageEvent{Channel: "C100", User: "U2", Text: "cold", BotID: "B1"}))
	// Own post.
	c.handleCallback(callback(&slackevents.MessageEvent{Channel: "C100", User: "UBOT", Text: "cold"}))

	expectNoMessage(t, b)
}
