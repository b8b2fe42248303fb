package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TheTechRobo/bot2h/bot"
	"github.com/TheTechRobo/bot2h/feed"
	"github.com/TheTechRobo/bot2h/internal/seen"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the gateway and serve commands",
	RunE:  runBot,
}

var configPath string

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "bot2h.json", "Config file path")
	rootCmd.AddCommand(runCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	var source feed.Source
	switch cfg.Transport {
	case "websocket":
		source = feed.NewWSSource(cfg.FeedURL, logger)
	default:
		source = feed.NewHTTPSource(cfg.FeedURL, logger)
	}

	b := bot.New(bot.Config{
		PostURL:    cfg.PostURL,
		MaxWorkers: cfg.MaxWorkers,
		Logger:     logger,
		Source:     source,
	})

	var tracker *seen.Store
	if cfg.RedisURL != "" {
		tracker, err = seen.New(cfg.RedisURL, logger)
		if err != nil {
			return fmt.Errorf("connecting seen tracker: %w", err)
		}
		defer tracker.Close()
		logger.Info("seen tracker enabled")
	}

	registerCommands(b, tracker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting to gateway",
		zap.String("feed", cfg.FeedURL),
		zap.String("transport", cfg.Transport),
		zap.Int("maxWorkers", cfg.MaxWorkers))

	err = b.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}
