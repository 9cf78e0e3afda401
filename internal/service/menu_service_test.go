package service

import (
	"context"
	"testing"

	"armancoffee/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMenuService(store *MockStore) *MenuService {
	logger := zerolog.Nop()
	return NewMenuService(store, &logger)
}

func TestMenuImport_AssignsCategorySlug(t *testing.T) {
	store := new(MockStore)
	svc := newMenuService(store)
	ctx := context.Background()

	var captured []models.MenuCategory
	store.On("ReplaceMenu", ctx, mock.AnythingOfType("[]models.MenuCategory")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]models.MenuCategory)
		}).Return(nil)

	err := svc.Import(ctx, []models.MenuCategory{
		{Name: "Coffee", Slug: "coffee", IsActive: true,
			Items: []models.MenuItem{{Name: "Latte", Price: 150, IsActive: true}}},
	})
	require.NoError(t, err)
	require.Len(t, captured, 1)
	assert.Equal(t, "coffee", captured[0].Items[0].CategorySlug)
}

func TestMenuImport_Validation(t *testing.T) {
	store := new(MockStore)
	svc := newMenuService(store)
	ctx := context.Background()

	cases := []struct {
		name       string
		categories []models.MenuCategory
	}{
		{"empty", nil},
		{"no category name", []models.MenuCategory{{Slug: "coffee"}}},
		{"bad slug", []models.MenuCategory{{Name: "Coffee", Slug: "Cafe Latte!"}}},
		{"duplicate slug", []models.MenuCategory{
			{Name: "Coffee", Slug: "coffee"},
			{Name: "More Coffee", Slug: "coffee"},
		}},
		{"item without name", []models.MenuCategory{
			{Name: "Coffee", Slug: "coffee", Items: []models.MenuItem{{Price: 10}}},
		}},
		{"negative price", []models.MenuCategory{
			{Name: "Coffee", Slug: "coffee", Items: []models.MenuItem{{Name: "Latte", Price: -1}}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, svc.Import(ctx, tc.categories))
		})
	}
	store.AssertNotCalled(t, "ReplaceMenu", mock.Anything, mock.Anything)
}

func TestSlugPattern(t *testing.T) {
	valid := []string{"coffee", "hot-drinks", "desserts-2"}
	invalid := []string{"", "-coffee", "coffee-", "Hot Drinks", "кофе", "a--b"}

	for _, s := range valid {
		assert.True(t, slugPattern.MatchString(s), s)
	}
	for _, s := range invalid {
		assert.False(t, slugPattern.MatchString(s), s)
	}
}
