package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/antonyforte/yuanshao-bot/internal/bot"
	"github.com/antonyforte/yuanshao-bot/internal/chat"
	"github.com/antonyforte/yuanshao-bot/internal/config"
	"github.com/antonyforte/yuanshao-bot/internal/docstore"
	"github.com/antonyforte/yuanshao-bot/internal/media"
	"github.com/antonyforte/yuanshao-bot/internal/storage"
	"github.com/antonyforte/yuanshao-bot/internal/transport/discord"
)

func main() {
	flagSet := pflag.NewFlagSet("yuanshao-bot", pflag.ContinueOnError)
	envFile := flagSet.String("env-file", ".env", "dotenv file loaded before reading the environment")
	store := flagSet.String("store", "", "document store backend (file, sqlite, postgres, bolt, memory); overrides STORE_BACKEND")
	logLevel := flagSet.String("log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *store != "" {
		cfg.StoreBackend = *store
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	// Set up logging
	setupLogging(cfg.LogLevel)

	slog.Info("Starting Yuan Shao bot", "store", cfg.StoreBackend, "workers", cfg.Workers)

	if err := run(cfg); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Bot stopped")
}

func run(cfg *config.Config) error {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	docs, err := docstore.Open(docstore.Options{
		Backend:     cfg.StoreBackend,
		Dir:         cfg.DataDir,
		SQLitePath:  cfg.DatabasePath,
		PostgresURL: cfg.DatabaseURL,
		BoltPath:    cfg.BoltPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	repo := storage.NewRepository(docs)
	defer repo.Close()

	transport, err := discord.New(cfg.DiscordToken, media.NewDownloader(cfg.MediaDir))
	if err != nil {
		return err
	}
	if err := transport.Open(); err != nil {
		return err
	}

	b := bot.New(transport, repo, bot.Options{
		AdminChat: chat.ChatID(cfg.AdminChannelID),
		Teams:     cfg.TeamRegistry(),
		Workers:   cfg.Workers,
	})

	// Start the bot
	if err := b.Start(ctx); err != nil {
		transport.Close()
		return fmt.Errorf("failed to start bot: %w", err)
	}

	slog.Info("Bot is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")

	// Stop the bot before the session so queued messages still get their replies
	b.Stop()
	if err := transport.Close(); err != nil {
		slog.Error("Error closing Discord session", "error", err)
	}

	return nil
}

func setupLogging(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
