package seed

import (
	"context"
	"fmt"

	"menuhub/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Result summarises one seeding run.
type Result struct {
	Skipped bool
	Created int
	Failed  int
}

// Seeder loads initial menu and stock into an empty catalog.
type Seeder struct {
	loader    Loader
	menu      service.MenuService
	inventory service.InventoryService
	logger    zerolog.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(loader Loader, menu service.MenuService, inventory service.InventoryService, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader:    loader,
		menu:      menu,
		inventory: inventory,
		logger:    logger.With().Str("component", "seeder").Logger(),
	}
}

// Run loads every path and applies the merged document.
func (s *Seeder) Run(ctx context.Context, paths []string) (Result, error) {
	doc, err := s.LoadAll(ctx, paths)
	if err != nil {
		return Result{}, err
	}
	return s.Apply(ctx, doc)
}

// LoadAll loads the documents concurrently and merges them in path order.
// Any failed load fails the whole call.
func (s *Seeder) LoadAll(ctx context.Context, paths []string) (*Document, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no seed files configured")
	}

	docs := make([]*Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			doc, err := s.loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load seed file %s: %w", path, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Strs("files", paths).Msg("failed to load seed files")
		return nil, err
	}

	merged := Merge(docs...)
	s.logger.Info().
		Int("file_count", len(paths)).
		Int("menu_items", len(merged.MenuItems)).
		Msg("seed files loaded")
	return merged, nil
}

// Apply creates every item and its inventory record unless the catalog
// already has items. A bad item is logged and skipped.
func (s *Seeder) Apply(ctx context.Context, doc *Document) (Result, error) {
	existing, err := s.menu.ListMenu(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check existing menu: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Warn().Int("menu_items", len(existing)).Msg("menu items already exist, skipping data load")
		return Result{Skipped: true}, nil
	}

	var res Result
	for _, entry := range doc.MenuItems {
		item, err := s.menu.CreateMenuItem(ctx, entry.Name, entry.Category, entry.Price)
		if err != nil {
			res.Failed++
			s.logger.Error().Err(err).Str("name", entry.Name).Msg("failed to create menu item")
			continue
		}

		qty := doc.QuantityFor(entry.Name)
		if _, err := s.inventory.CreateInventory(ctx, item.ID, qty, entry.LowStockThreshold); err != nil {
			res.Failed++
			s.logger.Error().Err(err).
				Int64("menu_item_id", item.ID).
				Str("name", item.Name).
				Msg("failed to create inventory")
			continue
		}

		res.Created++
		s.logger.Debug().
			Int64("menu_item_id", item.ID).
			Str("name", item.Name).
			Int("quantity", qty).
			Msg("seeded menu item")
	}

	s.logger.Info().
		Int("created", res.Created).
		Int("failed", res.Failed).
		Msg("initial data loaded")
	return res, nil
}
