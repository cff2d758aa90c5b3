package sqlite

import (
	"context"
	"embed"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/voucher-bot/pkg/database"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Open connects to the SQLite file at path and applies the session schema
func Open(ctx context.Context, path string, logger *zap.Logger) (*database.DB, error) {
	db, err := database.New(ctx, database.DefaultConfig(path), logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Run(ctx, migrationFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}

	return db, nil
}
