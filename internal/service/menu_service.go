package service

import (
	"context"
	"regexp"

	"armancoffee/internal/domain"
	"armancoffee/internal/models"

	"github.com/rs/zerolog"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type MenuService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewMenuService(store domain.Store, logger *zerolog.Logger) *MenuService {
	return &MenuService{store: store, logger: logger}
}

// Import replaces the whole catalog with the provided category tree.
// Items arrive nested under their category with sort orders already
// resolved by the caller.
func (s *MenuService) Import(ctx context.Context, categories []models.MenuCategory) error {
	if len(categories) == 0 {
		return validationf("categories are required")
	}

	seen := make(map[string]bool, len(categories))
	for i := range categories {
		cat := &categories[i]
		if cat.Name == "" {
			return validationf("category %d: name is required", i)
		}
		if !slugPattern.MatchString(cat.Slug) {
			return validationf("category %q: invalid slug %q", cat.Name, cat.Slug)
		}
		if seen[cat.Slug] {
			return validationf("duplicate category slug %q", cat.Slug)
		}
		seen[cat.Slug] = true

		for j := range cat.Items {
			item := &cat.Items[j]
			if item.Name == "" {
				return validationf("category %q: item %d has no name", cat.Slug, j)
			}
			if item.Price < 0 {
				return validationf("item %q: price must not be negative", item.Name)
			}
			item.CategorySlug = cat.Slug
		}
	}

	if err := s.store.ReplaceMenu(ctx, categories); err != nil {
		return err
	}

	s.logger.Info().Int("categories", len(categories)).Msg("menu imported")
	return nil
}

// Fetch returns the active catalog: categories by sort order, each with its
// active items.
func (s *MenuService) Fetch(ctx context.Context) ([]models.MenuCategory, error) {
	return s.store.GetMenu(ctx)
}
