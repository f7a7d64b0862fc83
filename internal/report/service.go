package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/period"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  period.Clock
}

func NewService(repo Repository, clock period.Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, now: clock}
}

func (s *Service) totals(ctx context.Context, r period.Range) (Totals, error) {
	if r.Empty() {
		return Totals{}, nil
	}
	return s.repo.Totals(ctx, r)
}

// TotalMealsServed is 0 for a period without records.
func (s *Service) TotalMealsServed(ctx context.Context, r period.Range) (int64, error) {
	t, err := s.totals(ctx, r)
	return t.MealsServed, err
}

func (s *Service) TotalStudentsPresent(ctx context.Context, r period.Range) (int64, error) {
	t, err := s.totals(ctx, r)
	return t.StudentsPresent, err
}

// EstimatedConsumption returns per-food-item quantities for a head count.
func (s *Service) EstimatedConsumption(ctx context.Context, menuID int64, studentsPresent int) ([]ConsumptionLine, error) {
	est, err := s.estimate(ctx, menuID, studentsPresent)
	if err != nil {
		return nil, err
	}
	return est.Lines, nil
}

func (s *Service) EstimatedCost(ctx context.Context, menuID int64, studentsPresent int) (decimal.Decimal, error) {
	est, err := s.estimate(ctx, menuID, studentsPresent)
	if err != nil {
		return decimal.Zero, err
	}
	return est.TotalCost, nil
}

// Estimate returns both consumption and cost from one read of the plan.
func (s *Service) Estimate(ctx context.Context, menuID int64, studentsPresent int) (*Estimate, error) {
	return s.estimate(ctx, menuID, studentsPresent)
}

func (s *Service) estimate(ctx context.Context, menuID int64, studentsPresent int) (*Estimate, error) {
	if studentsPresent < 0 {
		return nil, fmt.Errorf("students present %d: %w", studentsPresent, core.ErrInvalidCount)
	}

	plan, err := s.repo.MenuPlan(ctx, menuID)
	if err != nil {
		return nil, err
	}

	lines := Consumption(plan, studentsPresent)
	return &Estimate{
		MenuID:          menuID,
		StudentsPresent: studentsPresent,
		Lines:           lines,
		TotalCost:       Cost(lines),
	}, nil
}

// Summary aggregates a period per school. schoolID 0 covers every school.
func (s *Service) Summary(ctx context.Context, r period.Range, schoolID int64) (*Summary, error) {
	out := &Summary{Start: r.Start, End: r.End, Schools: []SchoolSummary{}, EstimatedCost: decimal.Zero}
	if r.Empty() {
		return out, nil
	}

	servings, err := s.repo.Servings(ctx, r, schoolID)
	if err != nil {
		return nil, err
	}

	out.Schools, out.Totals, out.EstimatedCost = Summarize(servings)
	return out, nil
}

// Dashboard reports today's and this month's activity as of the clock.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	return s.repo.Dashboard(ctx, period.NewRange(now, now), period.Month(now))
}
