// Command gatehouse is the entrypoint for the guild entry gate.
// It:
//   - Loads configuration and initializes structured logging.
//   - Builds the Twitter OAuth authenticator and its pending-request store,
//     including the TTL sweeper that drops abandoned handshakes.
//   - Builds the Discord REST session used for voice channels and invites.
//   - Exposes the HTTP server: entry flow, interaction webhook, cleanup
//     trigger, /healthz, /readyz, and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/luma-collective/gatehouse/config"
	"github.com/luma-collective/gatehouse/discordapi"
	"github.com/luma-collective/gatehouse/server"
	"github.com/luma-collective/gatehouse/telemetry"
	"github.com/luma-collective/gatehouse/twitterapi"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load(".env")

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", slog.String("level", lvl.String()))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.ValidateTwitterReady(); err != nil {
		slog.Error("twitter not configured", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.ValidateDiscordReady(); err != nil {
		slog.Error("discord not configured", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("gatehouse", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	pubKey, err := discordapi.ParsePublicKey(cfg.DiscordPublicKey)
	if err != nil {
		slog.Error("invalid DISCORD_PUBLIC_KEY", slog.Any("err", err))
		os.Exit(1)
	}

	// REST-only Discord session; the gateway is never opened.
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		slog.Error("discord session init failed", slog.Any("err", err))
		os.Exit(1)
	}
	session.Client.Timeout = cfg.UpstreamTimeout
	rooms := discordapi.NewManager(session, cfg.DiscordGuildID, cfg.DiscordGeneralChannelID, cfg.DiscordVoiceParentID)

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := twitterapi.NewPendingStore(cfg.PendingTTL)
	store.StartSweeper(ctx, time.Minute)
	auth := twitterapi.NewAuthenticator(cfg.TwitterConsumerKey, cfg.TwitterConsumerSecret, cfg.CallbackURL, store, cfg.UpstreamTimeout)

	handlers := server.NewHandlers(cfg, auth, rooms, pubKey)

	go func() {
		if err := server.Start(ctx, handlers, cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()
	slog.Info("gatehouse listening", slog.String("addr", cfg.HTTPAddr))

	// Block until shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")
}
