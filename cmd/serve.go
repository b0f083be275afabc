package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/thermovote/internal/bus"
	"github.com/nextlevelbuilder/thermovote/internal/caller"
	"github.com/nextlevelbuilder/thermovote/internal/channels"
	"github.com/nextlevelbuilder/thermovote/internal/channels/discord"
	"github.com/nextlevelbuilder/thermovote/internal/channels/slack"
	"github.com/nextlevelbuilder/thermovote/internal/config"
	"github.com/nextlevelbuilder/thermovote/internal/cooldown"
	"github.com/nextlevelbuilder/thermovote/internal/dispatch"
	"github.com/nextlevelbuilder/thermovote/internal/gateway"
	"github.com/nextlevelbuilder/thermovote/internal/router"
	"github.com/nextlevelbuilder/thermovote/internal/store"
	filestore "github.com/nextlevelbuilder/thermovote/internal/store/file"
	"github.com/nextlevelbuilder/thermovote/internal/store/sqlite"
	"github.com/nextlevelbuilder/thermovote/internal/telemetry"
	"github.com/nextlevelbuilder/thermovote/internal/vote"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the voice-script server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	// Setup structured logging
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Load config and fail fast before anything listens or connects.
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, Version)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	// Cooldown state survives restarts; an unreadable store degrades to a
	// fresh cooldown rather than refusing to start.
	cooldownStore, closeStore, err := openCooldownStore(cfg.State)
	if err != nil {
		slog.Error("failed to open state backend", "backend", cfg.State.Backend, "error", err)
		os.Exit(1)
	}
	if closeStore != nil {
		defer closeStore()
	}
	tracker := cooldown.New(cooldownStore, cfg.CooldownWindow())

	msgBus := bus.New()

	var channel channels.Channel
	switch cfg.Channel.Platform {
	case "slack":
		channel, err = slack.New(cfg.Channel.Slack, msgBus)
	case "discord":
		channel, err = discord.New(cfg.Channel.Discord, msgBus)
	}
	if err != nil {
		slog.Error("failed to initialize channel", "platform", cfg.Channel.Platform, "error", err)
		os.Exit(1)
	}

	executor, err := caller.NewPlivoCaller(
		cfg.Plivo.AuthID,
		cfg.Plivo.AuthToken,
		cfg.Plivo.FromNumber,
		cfg.Plivo.TargetNumber,
		cfg.Gateway.PublicBaseURL,
	)
	if err != nil {
		slog.Error("failed to initialize caller", "error", err)
		os.Exit(1)
	}

	dispatcher := dispatch.New(executor, tracker, channel)
	machine := vote.NewMachine(ctx, channel, dispatcher, cfg.PollDuration())

	// The channel must be started before the router exists: the bot's own
	// user ID is only known after authentication.
	if err := channel.Start(ctx); err != nil {
		slog.Error("failed to start channel", "platform", cfg.Channel.Platform, "error", err)
		os.Exit(1)
	}
	rtr := router.New(tracker, machine, channel, channel.BotUserID())

	server := gateway.NewServer(cfg.Gateway)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("graceful shutdown initiated", "signal", sig)
		channel.Stop(context.Background())
		cancel()
	}()

	slog.Info("thermovote starting",
		"version", Version,
		"platform", cfg.Channel.Platform,
		"poll_window", cfg.PollDuration(),
		"cooldown", cfg.CooldownWindow(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		for {
			msg, ok := msgBus.ConsumeInbound(gctx)
			if !ok {
				return nil
			}
			rtr.OnMessage(gctx, msg)
		}
	})

	if err := g.Wait(); err != nil {
		slog.Error("service error", "error", err)
		os.Exit(1)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := shutdownTracing(flushCtx); err != nil {
		slog.Warn("tracing shutdown failed", "error", err)
	}
}

// openCooldownStore opens the configured state backend. The state path is a
// directory; each backend keeps its own file inside it.
func openCooldownStore(cfg config.StateConfig) (store.CooldownStore, func() error, error) {
	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, nil, err
	}
	switch cfg.Backend {
	case "sqlite":
		s, err := sqlite.Open(filepath.Join(cfg.Path, "state.db"))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return filestore.NewCooldownStore(filepath.Join(cfg.Path, "last_action")), nil, nil
	}
}
