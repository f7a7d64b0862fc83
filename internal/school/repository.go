package school

import (
	"context"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

type Repository interface {
	// Create and Update fail with core.ErrDuplicateSchoolCode on a code clash.
	Create(ctx context.Context, s *School) error
	Update(ctx context.Context, s *School) error

	Get(ctx context.Context, id int64) (*School, error)
	GetByCode(ctx context.Context, code string) (*School, error)
	List(ctx context.Context, vis core.Visibility) ([]School, error)

	// Search matches name, code or city case-insensitively over active schools.
	Search(ctx context.Context, text string) ([]School, error)
	ListByCity(ctx context.Context, city string) ([]School, error)
	ListByState(ctx context.Context, state string) ([]School, error)
	CountActive(ctx context.Context) (int64, error)

	Deactivate(ctx context.Context, id int64) error
}
