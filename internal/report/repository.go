package report

import (
	"context"

	"github.com/Abhigulve/mid-day-meal/internal/period"
)

// Repository reads aggregates. Every method observes a single consistent
// snapshot of the ledger.
type Repository interface {
	Totals(ctx context.Context, r period.Range) (Totals, error)

	// Servings lists meal records in r, oldest first. schoolID 0 means all
	// schools.
	Servings(ctx context.Context, r period.Range, schoolID int64) ([]Serving, error)

	// MenuPlan returns core.ErrNotFound for an unknown menu.
	MenuPlan(ctx context.Context, menuID int64) ([]PlanLine, error)

	Dashboard(ctx context.Context, today, month period.Range) (*DashboardStats, error)
}
