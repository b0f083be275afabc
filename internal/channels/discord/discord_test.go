package discord

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/nextlevelbuilder/thermovote/internal/bus"
	"github.com/nextlevelbuilder/thermovote/internal/channels"
	"github.com/nextlevelbuilder/thermovote/internal/config"
	"github.com/nextlevelbuilder/thermovote/internal/vote"
)

func TestReactionVocabulary(t *testing.T) {
	if reactionEmoji[vote.Agree] != "👍" || reactionEmoji[vote.Disagree] != "👎" {
		t.Errorf("unexpected reaction vocabulary: %v", reactionEmoji)
	}
}

func newTestChannel(b *bus.MessageBus) *Channel {
	return &Channel{
		BaseChannel: channels.NewBaseChannel("discord", b),
		cfg:         config.DiscordConfig{ChannelID: "123"},
		botUserID:   "BOT",
	}
}

func message(channelID, authorID, content string, isBot bool) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: channelID,
		Author:    &discordgo.User{ID: authorID, Bot: isBot},
		Content:   content,
	}}
}

func TestHandleMessageForwards(t *testing.T) {
	b := bus.New()
	c := newTestChannel(b)

	c.handleMessage(nil, message("123", "U1", "too hot in here", false))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, ok := b.ConsumeInbound(ctx)
	if !ok {
		t.Fatal("expected an inbound message")
	}
	if msg.Channel != "discord" || msg.ChatID != "123" || msg.SenderID != "U1" {
		t.Errorf("unexpected inbound message: %+v", msg)
	}
}

func TestHandleMessageFilters(t *testing.T) {
	b := bus.New()
	c := newTestChannel(b)

	c.handleMessage(nil, message("999", "U1", "cold", false))  // wrong channel
	c.handleMessage(nil, message("123", "U2", "cold", true))   // bot author
	c.handleMessage(nil, message("123", "BOT", "cold", false)) // self

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if msg, ok := b.ConsumeInbound(ctx); ok {
		t.Fatalf("expected no inbound message, got %+v", msg)
	}
}
