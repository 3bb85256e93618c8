package repository

import (
	"context"
	"testing"
	"time"

	"menuhub/internal/config"
	"menuhub/internal/database"
	"menuhub/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container with the schema migrated.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPoolFromURL(ctx, connStr, config.DatabaseConfig{
		MaxConnections: 20,
		MinConnections: 1,
		LockTimeoutMS:  2000,
	}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, database.MigrateUp(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedMenuItem inserts a menu item through the repository under test.
func seedMenuItem(t *testing.T, repo MenuRepository, name string, category model.Category, price string) *model.MenuItem {
	t.Helper()
	item, err := model.NewMenuItem(name, category, decimal.RequireFromString(price))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}
