package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("THERMOVOTE_SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("THERMOVOTE_SLACK_APP_TOKEN", "xapp-test")
	t.Setenv("THERMOVOTE_PLIVO_AUTH_ID", "MAXXXX")
	t.Setenv("THERMOVOTE_PLIVO_AUTH_TOKEN", "secret")
	t.Setenv("THERMOVOTE_PLIVO_FROM_NUMBER", "+14155550100")
	t.Setenv("THERMOVOTE_TARGET_NUMBER", "+14155550123")
	t.Setenv("THERMOVOTE_PUBLIC_BASE_URL", "https://example.ngrok.io")
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Channel.Platform != "slack" {
		t.Errorf("default platform = %q, want slack", cfg.Channel.Platform)
	}
	if cfg.Channel.Slack.Channel != DefaultChannelName {
		t.Errorf("default channel = %q, want %q", cfg.Channel.Slack.Channel, DefaultChannelName)
	}
	if cfg.Poll.DurationSeconds != 60 || cfg.Poll.CooldownSeconds != 60 {
		t.Errorf("default poll timing = %+v, want 60/60", cfg.Poll)
	}
	if cfg.Gateway.Port != 8080 {
		t.Errorf("default gateway port = %d, want 8080", cfg.Gateway.Port)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	setValidEnv(t)
	t.Setenv("THERMOVOTE_COOLDOWN_SECONDS", "1800")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if cfg.Poll.CooldownSeconds != 1800 {
		t.Errorf("cooldown = %d, want env override 1800", cfg.Poll.CooldownSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("env-only config should validate, got %v", err)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	setValidEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		// json5: comments allowed
		channel: { platform: "slack", slack: { channel: "office-climate" } },
		poll: { duration_seconds: 90, cooldown_seconds: 300 },
		gateway: { host: "127.0.0.1", port: 9090, public_base_url: "https://file.example" },
		plivo: { from_number: "+1000", target_number: "+2000" },
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("THERMOVOTE_POLL_DURATION_SECONDS", "45")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Channel.Slack.Channel != "office-climate" {
		t.Errorf("channel = %q, want file value", cfg.Channel.Slack.Channel)
	}
	if cfg.Poll.DurationSeconds != 45 {
		t.Errorf("duration = %d, want env to beat file (45)", cfg.Poll.DurationSeconds)
	}
	if cfg.Poll.CooldownSeconds != 300 {
		t.Errorf("cooldown = %d, want file value 300", cfg.Poll.CooldownSeconds)
	}
	// Env base URL overlays the file's.
	if cfg.Gateway.PublicBaseURL != "https://example.ngrok.io" {
		t.Errorf("public_base_url = %q, want env override", cfg.Gateway.PublicBaseURL)
	}
}

func TestValidateFailsFast(t *testing.T) {
	cases := []struct {
		name  string
		mutate func(*Config)
	}{
		{"no slack bot token", func(c *Config) { c.Channel.Slack.BotToken = "" }},
		{"no slack app token", func(c *Config) { c.Channel.Slack.AppToken = "" }},
		{"no plivo creds", func(c *Config) { c.Plivo.AuthID = "" }},
		{"no target number", func(c *Config) { c.Plivo.TargetNumber = "" }},
		{"no public base url", func(c *Config) { c.Gateway.PublicBaseURL = "" }},
		{"bad platform", func(c *Config) { c.Channel.Platform = "irc" }},
		{"bad state backend", func(c *Config) { c.State.Backend = "redis" }},
		{"zero poll duration", func(c *Config) { c.Poll.DurationSeconds = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Channel.Slack.BotToken = "xoxb"
			cfg.Channel.Slack.AppToken = "xapp"
			cfg.Plivo = PlivoConfig{AuthID: "a", AuthToken: "b", FromNumber: "+1", TargetNumber: "+2"}
			cfg.Gateway.PublicBaseURL = "https://x"
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateDiscordPlatform(t *testing.T) {
	cfg := Default()
	cfg.Channel.Platform = "discord"
	cfg.Channel.Discord = DiscordConfig{Token: "tok", ChannelID: "123"}
	cfg.Plivo = PlivoConfig{AuthID: "a", AuthToken: "b", FromNumber: "+1", TargetNumber: "+2"}
	cfg.Gateway.PublicBaseURL = "https://x"
	if err := cfg.Validate(); err != nil {
		t.Errorf("discord config should validate, got %v", err)
	}
}
