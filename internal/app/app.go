// Package app wires configuration into the storage, locking, eventing and
// service layers shared by the API server and the order CLI.
package app

import (
	"context"
	"fmt"

	"menuhub/internal/config"
	"menuhub/internal/database"
	"menuhub/internal/events"
	"menuhub/internal/lock"
	"menuhub/internal/metrics"
	"menuhub/internal/repository"
	"menuhub/internal/repository/memory"
	"menuhub/internal/seed"
	"menuhub/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App holds the running services and the resources behind them.
type App struct {
	Menu      service.MenuService
	Inventory service.InventoryService
	Orders    service.OrderService
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry

	pool      *pgxpool.Pool
	redis     *redis.Client
	publisher events.Publisher
	logger    zerolog.Logger
}

// New builds the application for cfg. Callers must Close the result.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{
		Registry: prometheus.NewRegistry(),
		logger:   logger,
	}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry)

	menuRepo, inventoryRepo, orderRepo, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	locker := a.newLocker(cfg)
	a.publisher = newPublisher(cfg.Kafka, logger)

	a.Menu = service.NewMenuService(menuRepo, logger)
	a.Inventory = service.NewInventoryService(inventoryRepo, menuRepo, cfg.Inventory.LowStockThreshold, a.publisher, a.Metrics, logger)
	a.Orders = service.NewOrderService(orderRepo, a.Menu, a.Inventory, locker, a.publisher, a.Metrics, logger)

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (repository.MenuRepository, repository.InventoryRepository, repository.OrderRepository, error) {
	if cfg.Store.Driver == config.StoreMemory {
		a.logger.Info().Msg("using in-memory store")
		return memory.NewMenuRepository(), memory.NewInventoryRepository(), memory.NewOrderRepository(), nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, a.logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialise database: %w", err)
	}
	a.pool = pool

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(ctx, pool, a.logger); err != nil {
			return nil, nil, nil, err
		}
	}

	return repository.NewMenuRepository(pool, a.logger),
		repository.NewInventoryRepository(pool, a.logger),
		repository.NewOrderRepository(pool, a.logger),
		nil
}

func (a *App) newLocker(cfg *config.Config) lock.Locker {
	if cfg.Lock.Backend != config.LockRedis {
		return lock.NewLocalLocker(cfg.Lock.Timeout(), a.logger)
	}

	a.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	a.logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis order locks")
	return lock.NewRedisLocker(a.redis, cfg.Lock.Timeout(), cfg.Lock.TTL(), a.logger)
}

func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) events.Publisher {
	if !cfg.Enabled {
		return events.NewLogPublisher(logger)
	}
	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("publishing events to kafka")
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, logger)
}

// Seed loads the configured seed files into an empty catalog.
func (a *App) Seed(ctx context.Context, cfg config.SeedConfig) (seed.Result, error) {
	fileLoader := seed.NewFileLoader(a.logger)
	loader := fileLoader

	if cfg.S3.Enabled {
		s3Loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, a.logger)
		switch {
		case err != nil && cfg.Fallback:
			a.logger.Warn().Err(err).Msg("failed to initialise S3 loader, falling back to local file system only")
		case err != nil:
			return seed.Result{}, fmt.Errorf("failed to initialise S3 loader: %w", err)
		case cfg.Fallback:
			loader = seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, a.logger)
		default:
			loader = seed.NewFallbackLoader(s3Loader, failingLoader{}, cfg.S3.Prefix, true, a.logger)
		}
	}

	result, err := seed.NewSeeder(loader, a.Menu, a.Inventory, a.logger).Run(ctx, cfg.Files)
	if err != nil {
		return result, fmt.Errorf("failed to seed catalog: %w", err)
	}
	return result, nil
}

// failingLoader stands in for the local file system when S3 fallback is disabled.
type failingLoader struct{}

func (failingLoader) Load(_ context.Context, path string) (*seed.Document, error) {
	return nil, fmt.Errorf("seed file %s unavailable: S3 load failed and local fallback is disabled", path)
}

// Ping checks the backing database, when there is one.
func (a *App) Ping(ctx context.Context) error {
	if a.pool == nil {
		return nil
	}
	return a.pool.Ping(ctx)
}

// Close releases every resource held by the application.
func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("failed to close redis client")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
