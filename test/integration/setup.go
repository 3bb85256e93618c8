package integration

import (
	"context"
	"testing"
	"time"

	"menuhub/internal/app"
	"menuhub/internal/config"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAPIKey is accepted by servers built with SetupTestApp.
const TestAPIKey = "test-api-key"

// SetupTestApp starts a PostgreSQL container and builds the application
// against it with migrations applied and the default seed data loaded.
func SetupTestApp(t *testing.T) (*app.App, *config.Config) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	cfg := &config.Config{
		Auth:  config.AuthConfig{APIKey: TestAPIKey},
		Store: config.StoreConfig{Driver: config.StorePostgres},
		Database: config.DatabaseConfig{
			Host:            host,
			Port:            port.Int(),
			User:            "testuser",
			Password:        "testpass",
			Database:        "testdb",
			MaxConnections:  20,
			MinConnections:  2,
			MaxConnLifetime: 300,
			LockTimeoutMS:   2000,
			AutoMigrate:     true,
		},
		Lock:      config.LockConfig{Backend: config.LockLocal, TimeoutMS: 5000},
		Inventory: config.InventoryConfig{LowStockThreshold: 5},
		Seed: config.SeedConfig{
			Enabled:  true,
			Files:    []string{"../../data/menu.json"},
			Fallback: true,
		},
	}

	application, err := app.New(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to build application: %v", err)
	}
	t.Cleanup(application.Close)

	if err := application.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	result, err := application.Seed(ctx, cfg.Seed)
	if err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	if result.Created == 0 {
		t.Fatalf("seed created no menu items: %+v", result)
	}

	return application, cfg
}
