package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/thermovote/internal/config"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Interactive setup: write a config file and list the secrets to export",
		Run: func(cmd *cobra.Command, args []string) {
			runOnboard()
		},
	}
}

// runOnboard collects the non-secret settings interactively and writes them
// to the config file. Secrets never go in the file; the wizard finishes with
// the list of env vars to export.
func runOnboard() {
	cfg := config.Default()

	var (
		platform     = cfg.Channel.Platform
		slackChannel = cfg.Channel.Slack.Channel
		discordChat  string
		fromNumber   string
		targetNumber string
		publicBase   string
		backend      = cfg.State.Backend
		cooldown     = strconv.Itoa(cfg.Poll.CooldownSeconds)
	)

	requireNumber := func(s string) error {
		if _, err := strconv.Atoi(s); err != nil {
			return fmt.Errorf("enter a whole number of seconds")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Chat platform").
				Options(
					huh.NewOption("Slack (Socket Mode)", "slack"),
					huh.NewOption("Discord", "discord"),
				).
				Value(&platform),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monitored Slack channel (name or ID)").
				Value(&slackChannel),
		).WithHideFunc(func() bool { return platform != "slack" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Monitored Discord channel ID").
				Value(&discordChat),
		).WithHideFunc(func() bool { return platform != "discord" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Plivo number to call from").
				Placeholder("+14155550100").
				Value(&fromNumber),
			huh.NewInput().
				Title("Facilities phone number to call").
				Placeholder("+14155550199").
				Value(&targetNumber),
			huh.NewInput().
				Title("Public base URL of the voice-script server").
				Description("The telephony provider fetches answer XML from here — a tunnel URL works.").
				Placeholder("https://example.ngrok.app").
				Value(&publicBase),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("State backend for the call cooldown").
				Options(
					huh.NewOption("Flat file", "file"),
					huh.NewOption("SQLite", "sqlite"),
				).
				Value(&backend),
			huh.NewInput().
				Title("Cooldown between calls (seconds)").
				Validate(requireNumber).
				Value(&cooldown),
		),
	)

	if err := form.Run(); err != nil {
		fmt.Printf("Setup aborted: %v\n", err)
		os.Exit(1)
	}

	cfg.Channel.Platform = platform
	cfg.Channel.Slack.Channel = slackChannel
	cfg.Channel.Discord.ChannelID = discordChat
	cfg.Plivo.FromNumber = fromNumber
	cfg.Plivo.TargetNumber = targetNumber
	cfg.Gateway.PublicBaseURL = publicBase
	cfg.State.Backend = backend
	cfg.Poll.CooldownSeconds, _ = strconv.Atoi(cooldown)

	cfgPath := resolveConfigPath()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		fmt.Printf("Could not encode config: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(cfgPath, append(data, '\n'), 0600); err != nil {
		fmt.Printf("Could not write %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s.\n\n", cfgPath)
	fmt.Println("Secrets are never stored in the config file. Export these before starting:")
	fmt.Println()
	if platform == "slack" {
		fmt.Println("  export THERMOVOTE_SLACK_BOT_TOKEN=xoxb-...")
		fmt.Println("  export THERMOVOTE_SLACK_APP_TOKEN=xapp-...")
	} else {
		fmt.Println("  export THERMOVOTE_DISCORD_TOKEN=...")
	}
	fmt.Println("  export THERMOVOTE_PLIVO_AUTH_ID=...")
	fmt.Println("  export THERMOVOTE_PLIVO_AUTH_TOKEN=...")
	fmt.Println()
	fmt.Println("Then run:  thermovote serve")
}
