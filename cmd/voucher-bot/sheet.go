package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/internal/container"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Spreadsheet maintenance",
}

var sheetInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the header row if the first row is blank, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		store := container.FromAppConfig(cfg).Store
		bundle := container.ProvideVoucherSheet(ctx, &store, logger)
		if !bundle.Available() {
			return fmt.Errorf("spreadsheet store unavailable: %w", bundle.Cause)
		}
		if closer, ok := bundle.Sheet.(interface{ Close() error }); ok {
			defer closer.Close()
		}

		if err := bundle.Sheet.EnsureHeader(ctx); err != nil {
			return fmt.Errorf("failed to initialize header: %w", err)
		}

		logger.Info("Spreadsheet header ready", zap.String("spreadsheet", store.Spreadsheet))
		return nil
	},
}

func init() {
	sheetCmd.AddCommand(sheetInitCmd)
}
