package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"menuhub/internal/model"
	"menuhub/internal/repository"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FuzzyMatchCutoff is the minimum name similarity FindClosest accepts.
const FuzzyMatchCutoff = 0.6

// menuService implements MenuService.
type menuService struct {
	repo   repository.MenuRepository
	logger zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(repo repository.MenuRepository, logger zerolog.Logger) MenuService {
	return &menuService{
		repo:   repo,
		logger: logger.With().Str("service", "menu").Logger(),
	}
}

// FindByID retrieves a menu item by ID.
func (s *menuService) FindByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	if id <= 0 {
		return nil, model.Errorf(model.ErrCodeInvalidArgument, "invalid menu item id %d", id)
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("menu_item_id", id).Msg("failed to get menu item")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, model.Errorf(model.ErrCodeMenuItemNotFound, "menu item %d not found", id)
	}
	return item, nil
}

// FindByName retrieves a menu item by exact, case-insensitive name.
func (s *menuService) FindByName(ctx context.Context, name string) (*model.MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidArgument, "menu item name cannot be empty")
	}

	item, err := s.repo.GetByName(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to get menu item by name")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		return nil, model.Errorf(model.ErrCodeMenuItemNotFound, "menu item %q not found", name)
	}
	return item, nil
}

// FindClosest tolerates typos in customer input.
func (s *menuService) FindClosest(ctx context.Context, name string) (*model.MenuItem, error) {
	item, err := s.FindByName(ctx, name)
	if err == nil || model.CodeOf(err) != model.ErrCodeMenuItemNotFound {
		return item, err
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu for fuzzy match")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	want := strings.ToLower(strings.TrimSpace(name))
	var (
		best      *model.MenuItem
		bestScore float64
	)
	for i := range all {
		score := similarity(want, strings.ToLower(all[i].Name))
		if score >= FuzzyMatchCutoff && score > bestScore {
			best, bestScore = &all[i], score
		}
	}

	if best == nil {
		return nil, model.Errorf(model.ErrCodeMenuItemNotFound, "no menu item resembles %q", name)
	}

	s.logger.Debug().
		Str("input", name).
		Str("matched", best.Name).
		Float64("score", bestScore).
		Msg("fuzzy matched menu item")
	return best, nil
}

// ListMenu returns all menu items.
func (s *menuService) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list menu items")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// ListByCategory returns the menu items of one category.
func (s *menuService) ListByCategory(ctx context.Context, category string) ([]model.MenuItem, error) {
	c, err := model.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetByCategory(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("category", string(c)).Msg("failed to list menu items by category")
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// CreateMenuItem validates and stores a new menu item.
func (s *menuService) CreateMenuItem(ctx context.Context, name, category string, price decimal.Decimal) (*model.MenuItem, error) {
	c, err := model.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	item, err := model.NewMenuItem(name, c, price)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if model.CodeOf(err) == model.ErrCodeConflict {
			return nil, model.WrapDomainError(model.ErrCodeConflict, err, fmt.Sprintf("menu item %q already exists", item.Name))
		}
		s.logger.Error().Err(err).Str("name", item.Name).Msg("failed to create menu item")
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.logger.Info().
		Int64("menu_item_id", item.ID).
		Str("name", item.Name).
		Str("category", string(item.Category)).
		Str("price", item.Price.StringFixed(2)).
		Msg("menu item created")
	return item, nil
}

// similarity maps edit distance onto [0, 1], where 1 is an exact match.
func similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
