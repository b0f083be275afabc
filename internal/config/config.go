// Package config holds the service configuration: a json5 file overlaid
// with environment variables. Secrets are env-only and never written back
// to the file.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the ThermoVote service.
type Config struct {
	Channel   ChannelConfig   `json:"channel"`
	Plivo     PlivoConfig     `json:"plivo"`
	Gateway   GatewayConfig   `json:"gateway"`
	Poll      PollConfig      `json:"poll"`
	State     StateConfig     `json:"state,omitempty"`
	Telemetry TelemetryConfig `json:"telemetry,omitempty"`
}

// ChannelConfig selects and configures the monitored chat platform.
type ChannelConfig struct {
	Platform string        `json:"platform"` // "slack" (default) or "discord"
	Slack    SlackConfig   `json:"slack,omitempty"`
	Discord  DiscordConfig `json:"discord,omitempty"`
}

// SlackConfig configures the Slack Socket Mode adapter.
// Tokens come from env only: THERMOVOTE_SLACK_BOT_TOKEN (xoxb-),
// THERMOVOTE_SLACK_APP_TOKEN (xapp-).
type SlackConfig struct {
	BotToken string `json:"-"`
	AppToken string `json:"-"`
	Channel  string `json:"channel,omitempty"` // monitored channel name or ID
}

// DiscordConfig configures the Discord adapter.
// Token from env only: THERMOVOTE_DISCORD_TOKEN.
type DiscordConfig struct {
	Token     string `json:"-"`
	ChannelID string `json:"channel_id,omitempty"` // monitored channel ID
}

// PlivoConfig configures the outbound call executor.
// Credentials from env only: THERMOVOTE_PLIVO_AUTH_ID,
// THERMOVOTE_PLIVO_AUTH_TOKEN.
type PlivoConfig struct {
	AuthID       string `json:"-"`
	AuthToken    string `json:"-"`
	FromNumber   string `json:"from_number"`
	TargetNumber string `json:"target_number"`
}

// GatewayConfig configures the voice-script HTTP server.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// PublicBaseURL is the externally reachable base the telephony provider
	// fetches answer XML from (e.g. a tunnel URL). Required.
	PublicBaseURL string `json:"public_base_url"`
}

// PollConfig configures the decision engine's timing.
type PollConfig struct {
	// DurationSeconds is the fixed voting window per poll.
	DurationSeconds int `json:"duration_seconds"`
	// CooldownSeconds is the minimum gap between two successful calls.
	// The service originally shipped with 1800; the current default is 60.
	CooldownSeconds int `json:"cooldown_seconds"`
}

// StateConfig selects where the last-action timestamp persists.
type StateConfig struct {
	Backend string `json:"backend,omitempty"` // "file" (default) or "sqlite"
	Path    string `json:"path,omitempty"`    // state file / database path
}

// TelemetryConfig configures the optional OTLP trace exporter.
type TelemetryConfig struct {
	// OTLPEndpoint is the collector's HTTP endpoint URL. Empty disables
	// tracing (otel falls back to its no-op provider).
	OTLPEndpoint string `json:"otlp_endpoint,omitempty"`
}

// PollDuration returns the poll window as a duration.
func (c *Config) PollDuration() time.Duration {
	return time.Duration(c.Poll.DurationSeconds) * time.Second
}

// CooldownWindow returns the cooldown window as a duration.
func (c *Config) CooldownWindow() time.Duration {
	return time.Duration(c.Poll.CooldownSeconds) * time.Second
}

// Validate fails fast on anything that would leave the service half-alive.
// Called before any listener starts.
func (c *Config) Validate() error {
	switch c.Channel.Platform {
	case "slack":
		if c.Channel.Slack.BotToken == "" {
			return fmt.Errorf("missing Slack bot token (set THERMOVOTE_SLACK_BOT_TOKEN)")
		}
		if c.Channel.Slack.AppToken == "" {
			return fmt.Errorf("missing Slack app token (set THERMOVOTE_SLACK_APP_TOKEN)")
		}
	case "discord":
		if c.Channel.Discord.Token == "" {
			return fmt.Errorf("missing Discord token (set THERMOVOTE_DISCORD_TOKEN)")
		}
		if c.Channel.Discord.ChannelID == "" {
			return fmt.Errorf("missing Discord channel_id")
		}
	default:
		return fmt.Errorf("unknown channel platform %q (want \"slack\" or \"discord\")", c.Channel.Platform)
	}

	if c.Plivo.AuthID == "" || c.Plivo.AuthToken == "" {
		return fmt.Errorf("missing Plivo credentials (set THERMOVOTE_PLIVO_AUTH_ID and THERMOVOTE_PLIVO_AUTH_TOKEN)")
	}
	if c.Plivo.FromNumber == "" || c.Plivo.TargetNumber == "" {
		return fmt.Errorf("missing Plivo from_number or target_number")
	}
	if c.Gateway.PublicBaseURL == "" {
		return fmt.Errorf("missing gateway public_base_url (the telephony provider needs a reachable answer URL)")
	}
	if c.Poll.DurationSeconds <= 0 {
		return fmt.Errorf("poll duration_seconds must be positive")
	}
	if c.Poll.CooldownSeconds < 0 {
		return fmt.Errorf("poll cooldown_seconds must not be negative")
	}
	switch c.State.Backend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("unknown state backend %q (want \"file\" or \"sqlite\")", c.State.Backend)
	}
	return nil
}
