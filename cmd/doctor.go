package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/thermovote/internal/config"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and state health",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

func runDoctor() {
	fmt.Println("thermovote doctor")
	fmt.Printf("  Version:  %s\n", Version)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	cfgPath := resolveConfigPath()
	fmt.Printf("  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Println(" (NOT FOUND — env vars only)")
	} else {
		fmt.Println(" (OK)")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  Config load error: %s\n", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Validation: FAILED (%s)\n", err)
	} else {
		fmt.Println("  Validation: OK")
	}

	fmt.Println()
	fmt.Println("  Channel:")
	fmt.Printf("    %-12s %s\n", "Platform:", cfg.Channel.Platform)
	switch cfg.Channel.Platform {
	case "slack":
		checkSecret("Bot token", cfg.Channel.Slack.BotToken)
		checkSecret("App token", cfg.Channel.Slack.AppToken)
		fmt.Printf("    %-12s %s\n", "Channel:", cfg.Channel.Slack.Channel)
	case "discord":
		checkSecret("Token", cfg.Channel.Discord.Token)
		fmt.Printf("    %-12s %s\n", "Channel ID:", cfg.Channel.Discord.ChannelID)
	}

	fmt.Println()
	fmt.Println("  Telephony:")
	checkSecret("Auth ID", cfg.Plivo.AuthID)
	checkSecret("Auth token", cfg.Plivo.AuthToken)
	fmt.Printf("    %-12s %s\n", "From:", orUnset(cfg.Plivo.FromNumber))
	fmt.Printf("    %-12s %s\n", "Target:", orUnset(cfg.Plivo.TargetNumber))
	fmt.Printf("    %-12s %s\n", "Answer URL:", orUnset(cfg.Gateway.PublicBaseURL))

	fmt.Println()
	fmt.Println("  Poll:")
	fmt.Printf("    %-12s %s\n", "Window:", cfg.PollDuration())
	fmt.Printf("    %-12s %s\n", "Cooldown:", cfg.CooldownWindow())

	fmt.Println()
	fmt.Println("  State:")
	backend := cfg.State.Backend
	if backend == "" {
		backend = "file"
	}
	fmt.Printf("    %-12s %s (%s)\n", "Backend:", backend, cfg.State.Path)
	reportLastAction(cfg.State)

	fmt.Println()
	fmt.Println("Doctor check complete.")
}

// reportLastAction opens the state backend read-only and prints the persisted
// last-action timestamp, exercising the same code path the service uses.
func reportLastAction(stateCfg config.StateConfig) {
	cooldownStore, closeStore, err := openCooldownStore(stateCfg)
	if err != nil {
		fmt.Printf("    %-12s OPEN FAILED (%s)\n", "Status:", err)
		return
	}
	if closeStore != nil {
		defer closeStore()
	}

	last, ok, err := cooldownStore.Load()
	switch {
	case err != nil:
		fmt.Printf("    %-12s READ FAILED (%s)\n", "Status:", err)
	case !ok:
		fmt.Printf("    %-12s no prior call recorded\n", "Last call:")
	default:
		fmt.Printf("    %-12s %s (%s ago)\n", "Last call:",
			last.Format(time.RFC3339), time.Since(last).Round(time.Second))
	}
}

func checkSecret(name, value string) {
	if value == "" {
		fmt.Printf("    %-12s (not configured)\n", name+":")
		return
	}
	masked := strings.Repeat("*", len(value))
	if len(value) > 8 {
		masked = value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
	}
	fmt.Printf("    %-12s %s\n", name+":", masked)
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
