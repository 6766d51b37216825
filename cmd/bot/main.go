// Package main starts the Vinted watcher Discord bot.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"vintedwatch/internal/app"
	"vintedwatch/internal/config"
	"vintedwatch/internal/external/discord"
	"vintedwatch/internal/service"
	"vintedwatch/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	demo := flag.Bool("demo", false, "send canned listings and exit, without scraping")
	demoFile := flag.String("demo-file", "demo_results.json", "path to the demo listings file")
	flag.Parse()

	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if *demo {
		runDemo(cfg, log, *demoFile)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	bot, err := app.NewBotWithFactory(cfg, log)
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		if err := bot.Stop(); err != nil {
			log.Error("Failed to stop bot", zap.Error(err))
		}
		cancel()
	}()

	if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Bot stopped with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Bot stopped successfully")
}

// runDemo posts the canned listings to the configured channel. It talks
// to the Discord REST API only, no gateway and no database.
func runDemo(cfg *config.Config, log *zap.Logger, path string) {
	client, err := discord.NewClient(cfg.BotToken, cfg.GuildID, log)
	if err != nil {
		log.Fatal("Failed to create discord client", zap.Error(err))
	}

	sent, err := service.RunDemo(client, path, cfg.NotificationChannelID, cfg.Language)
	if err != nil {
		log.Fatal("Demo run failed", zap.Error(err), zap.Int("sent", sent))
	}

	log.Info("Demo run finished", zap.Int("sent", sent))
}
