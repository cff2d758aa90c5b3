package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/container"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot until SIGINT or SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting voucher bot",
		zap.String("mode", cfg.Bot.Mode),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("session_driver", cfg.Session.Driver))

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(container.FromAppConfig(cfg), logger)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return fmt.Errorf("failed to start: %w", err)
	}

	serveErr := c.Serve(ctx)
	if serveErr != nil {
		logger.Error("Transport stopped with error", zap.Error(serveErr))
	}

	logger.Info("Shutting down voucher bot")
	if err := c.Close(); err != nil {
		logger.Error("Shutdown completed with errors", zap.Error(err))
	}

	if serveErr != nil {
		return serveErr
	}
	logger.Info("Voucher bot exited")
	return nil
}
