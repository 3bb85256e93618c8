package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate runs a goose command (up, down, status, reset, version) against the
// embedded migrations using a database/sql handle borrowed from pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string, logger zerolog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info().Str("command", command).Msg("running database migrations")

	if err := goose.RunContext(ctx, command, db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run goose %s: %w", command, err)
	}

	logger.Info().Str("command", command).Msg("database migrations completed")
	return nil
}

// MigrateUp applies every pending migration.
func MigrateUp(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	return Migrate(ctx, pool, "up", logger)
}
