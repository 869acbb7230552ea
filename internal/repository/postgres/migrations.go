package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AltPeach/bahr-naturals/pkg/database"
)

//go:embed migrations/*.up.sql
var migrationFS embed.FS

// Migrate applies the checkout schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	return database.RunMigrations(ctx, pool, sub, logger)
}
