package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/titanous/json5"
)

const (
	// DefaultChannelName is the monitored Slack channel when none is set.
	DefaultChannelName = "facilities-requests"

	defaultGatewayHost     = "0.0.0.0"
	defaultGatewayPort     = 8080
	defaultPollSeconds     = 60
	defaultCooldownSeconds = 60
	defaultStatePath       = "thermovote-state"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Channel: ChannelConfig{
			Platform: "slack",
			Slack:    SlackConfig{Channel: DefaultChannelName},
		},
		Gateway: GatewayConfig{
			Host: defaultGatewayHost,
			Port: defaultGatewayPort,
		},
		Poll: PollConfig{
			DurationSeconds: defaultPollSeconds,
			CooldownSeconds: defaultCooldownSeconds,
		},
		State: StateConfig{
			Backend: "file",
			Path:    defaultStatePath,
		},
	}
}

// Load reads config from a json5 file, then overlays env vars. A missing
// file is not an error: env vars alone can carry a full configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config. Env vars take
// precedence over file values; secrets only ever come from here.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	envStr("THERMOVOTE_SLACK_BOT_TOKEN", &c.Channel.Slack.BotToken)
	envStr("THERMOVOTE_SLACK_APP_TOKEN", &c.Channel.Slack.AppToken)
	envStr("THERMOVOTE_SLACK_CHANNEL", &c.Channel.Slack.Channel)
	envStr("THERMOVOTE_DISCORD_TOKEN", &c.Channel.Discord.Token)
	envStr("THERMOVOTE_DISCORD_CHANNEL_ID", &c.Channel.Discord.ChannelID)
	envStr("THERMOVOTE_CHANNEL_PLATFORM", &c.Channel.Platform)

	envStr("THERMOVOTE_PLIVO_AUTH_ID", &c.Plivo.AuthID)
	envStr("THERMOVOTE_PLIVO_AUTH_TOKEN", &c.Plivo.AuthToken)
	envStr("THERMOVOTE_PLIVO_FROM_NUMBER", &c.Plivo.FromNumber)
	envStr("THERMOVOTE_TARGET_NUMBER", &c.Plivo.TargetNumber)

	envStr("THERMOVOTE_PUBLIC_BASE_URL", &c.Gateway.PublicBaseURL)
	envInt("THERMOVOTE_GATEWAY_PORT", &c.Gateway.Port)

	envInt("THERMOVOTE_POLL_DURATION_SECONDS", &c.Poll.DurationSeconds)
	envInt("THERMOVOTE_COOLDOWN_SECONDS", &c.Poll.CooldownSeconds)

	envStr("THERMOVOTE_STATE_BACKEND", &c.State.Backend)
	envStr("THERMOVOTE_STATE_PATH", &c.State.Path)

	envStr("THERMOVOTE_OTLP_ENDPOINT", &c.Telemetry.OTLPEndpoint)
}
