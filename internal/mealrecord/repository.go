package mealrecord

import (
	"context"
	"time"
)

type Repository interface {
	// Create fails with core.ErrDuplicateRecord when the (school, menu,
	// date) triple is already recorded.
	Create(ctx context.Context, rec *MealRecord) error

	// Update writes the mutable fields only.
	Update(ctx context.Context, rec *MealRecord) error

	Get(ctx context.Context, id int64) (*MealRecord, error)
	Find(ctx context.Context, schoolID, menuID int64, date time.Time) (*MealRecord, error)

	// List returns matching records, newest date first.
	List(ctx context.Context, f Filter) ([]MealRecord, error)

	Delete(ctx context.Context, id int64) error
}
