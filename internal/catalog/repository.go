package catalog

import (
	"context"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

// Repository is the storage contract for the food catalog.
type Repository interface {
	Create(ctx context.Context, item *FoodItem) error
	Update(ctx context.Context, item *FoodItem) error
	Get(ctx context.Context, id int64) (*FoodItem, error)
	List(ctx context.Context, vis core.Visibility) ([]FoodItem, error)
	ListByCategory(ctx context.Context, category Category, vis core.Visibility) ([]FoodItem, error)

	// Search matches name or local name, case-insensitively, over active items.
	Search(ctx context.Context, text string) ([]FoodItem, error)

	// Deactivate reports core.ErrNotFound only when the id does not exist.
	Deactivate(ctx context.Context, id int64) error
}
