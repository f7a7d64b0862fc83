package menu

import (
	"context"
	"time"
)

// Repository defines all storage operations for menus and their composition.
type Repository interface {

	// -------------------------------
	// Menus
	// -------------------------------

	// Create fails with core.ErrDuplicateMenu when another active menu
	// holds the same date and meal type.
	Create(ctx context.Context, m *Menu) error

	// Update rewrites an active menu. Inactive or unknown ids are
	// core.ErrNotFound; a clash with another active menu is
	// core.ErrDuplicateMenu.
	Update(ctx context.Context, m *Menu) error

	Get(ctx context.Context, id int64) (*Menu, error)

	GetActiveByDateAndMealType(
		ctx context.Context,
		date time.Time,
		mealType MealType,
	) (*Menu, error)

	// List returns matching menus ordered by date, then meal type.
	List(ctx context.Context, f Filter) ([]Menu, error)

	Deactivate(ctx context.Context, id int64) error

	// -------------------------------
	// Composition
	// -------------------------------

	// AddFoodItem fails with core.ErrDuplicateComposition when the food
	// item is already on the menu.
	AddFoodItem(ctx context.Context, item *MenuFoodItem) error

	// RemoveFoodItem succeeds whether or not the line existed.
	RemoveFoodItem(ctx context.Context, menuID, foodItemID int64) error

	// UpdateFoodItem rewrites quantity and notes of an existing line.
	UpdateFoodItem(ctx context.Context, item *MenuFoodItem) error

	// Composition returns the lines of a menu in insertion order,
	// regardless of the menu's state.
	Composition(ctx context.Context, menuID int64) ([]MenuFoodItem, error)
}
