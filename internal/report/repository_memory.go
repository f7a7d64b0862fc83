package report

import (
	"context"
	"sort"

	"github.com/Abhigulve/mid-day-meal/internal/catalog"
	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/mealrecord"
	"github.com/Abhigulve/mid-day-meal/internal/menu"
	"github.com/Abhigulve/mid-day-meal/internal/period"

	"github.com/shopspring/decimal"
)

// Sources the in-memory repository reads through. The component services
// satisfy them.

type RecordSource interface {
	ListInPeriod(ctx context.Context, r period.Range) ([]mealrecord.MealRecord, error)
}

type MenuSource interface {
	Get(ctx context.Context, id int64) (*menu.Menu, error)
	Composition(ctx context.Context, menuID int64) ([]menu.MenuFoodItem, error)
	ListForPeriod(ctx context.Context, r period.Range, mealType menu.MealType, vis core.Visibility) ([]menu.Menu, error)
}

type FoodSource interface {
	core.FoodItemReader
	List(ctx context.Context, vis core.Visibility) ([]catalog.FoodItem, error)
}

// InMemoryRepository computes reports by joining the ledger, the menu
// composer and the catalog in process. It backs tests and local tooling;
// reads are not isolated from concurrent writes.
type InMemoryRepository struct {
	records RecordSource
	menus   MenuSource
	foods   FoodSource
	schools core.SchoolReader
}

func NewInMemoryRepository(
	records RecordSource,
	menus MenuSource,
	foods FoodSource,
	schools core.SchoolReader,
) *InMemoryRepository {
	return &InMemoryRepository{
		records: records,
		menus:   menus,
		foods:   foods,
		schools: schools,
	}
}

func (r *InMemoryRepository) Totals(ctx context.Context, rg period.Range) (Totals, error) {
	recs, err := r.records.ListInPeriod(ctx, rg)
	if err != nil {
		return Totals{}, err
	}

	var t Totals
	for _, rec := range recs {
		t.Records++
		t.MealsServed += int64(rec.MealsServed)
		t.StudentsPresent += int64(rec.StudentsPresent)
	}
	return t, nil
}

// Servings mirrors the SQL join: each record priced by its menu's lines,
// unpriced food items counting as zero.
func (r *InMemoryRepository) Servings(ctx context.Context, rg period.Range, schoolID int64) ([]Serving, error) {
	recs, err := r.records.ListInPeriod(ctx, rg)
	if err != nil {
		return nil, err
	}

	schools := map[int64]*core.SchoolRef{}
	menus := map[int64]*menu.Menu{}
	costs := map[int64]decimal.Decimal{}

	servings := []Serving{}
	for _, rec := range recs {
		if schoolID != 0 && rec.SchoolID != schoolID {
			continue
		}

		sc, ok := schools[rec.SchoolID]
		if !ok {
			if sc, err = r.schools.SchoolRef(ctx, rec.SchoolID); err != nil {
				return nil, err
			}
			schools[rec.SchoolID] = sc
		}

		m, ok := menus[rec.MenuID]
		if !ok {
			if m, err = r.menus.Get(ctx, rec.MenuID); err != nil {
				return nil, err
			}
			menus[rec.MenuID] = m
		}

		cost, ok := costs[rec.MenuID]
		if !ok {
			plan, err := r.MenuPlan(ctx, rec.MenuID)
			if err != nil {
				return nil, err
			}
			cost = Cost(Consumption(plan, 1))
			costs[rec.MenuID] = cost
		}

		servings = append(servings, Serving{
			RecordID:        rec.ID,
			SchoolID:        rec.SchoolID,
			SchoolName:      sc.Name,
			SchoolCode:      sc.Code,
			MenuID:          rec.MenuID,
			MealType:        string(m.MealType),
			Date:            rec.Date,
			StudentsPresent: rec.StudentsPresent,
			MealsServed:     rec.MealsServed,
			CostPerStudent:  cost,
		})
	}

	sort.Slice(servings, func(i, j int) bool {
		a, b := servings[i], servings[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.SchoolName != b.SchoolName {
			return a.SchoolName < b.SchoolName
		}
		return a.RecordID < b.RecordID
	})
	return servings, nil
}

func (r *InMemoryRepository) MenuPlan(ctx context.Context, menuID int64) ([]PlanLine, error) {
	if _, err := r.menus.Get(ctx, menuID); err != nil {
		return nil, err
	}

	lines, err := r.menus.Composition(ctx, menuID)
	if err != nil {
		return nil, err
	}

	plan := make([]PlanLine, 0, len(lines))
	for _, l := range lines {
		food, err := r.foods.FoodItemRef(ctx, l.FoodItemID)
		if err != nil {
			return nil, err
		}
		plan = append(plan, PlanLine{
			FoodItemID:         food.ID,
			FoodItemName:       food.Name,
			Unit:               food.Unit,
			QuantityPerStudent: l.QuantityPerStudent,
			CostPerUnit:        food.CostPerUnit,
		})
	}
	return plan, nil
}

func (r *InMemoryRepository) Dashboard(ctx context.Context, today, month period.Range) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)

	if stats.ActiveSchools, err = r.schools.CountActive(ctx); err != nil {
		return nil, err
	}

	foods, err := r.foods.List(ctx, core.ActiveOnly)
	if err != nil {
		return nil, err
	}
	stats.ActiveFoodItems = int64(len(foods))

	menus, err := r.menus.ListForPeriod(ctx, month, "", core.ActiveOnly)
	if err != nil {
		return nil, err
	}
	stats.MenusThisMonth = int64(len(menus))

	if stats.Today, err = r.Totals(ctx, today); err != nil {
		return nil, err
	}
	if stats.ThisMonth, err = r.Totals(ctx, month); err != nil {
		return nil, err
	}
	return &stats, nil
}

var _ Repository = (*InMemoryRepository)(nil)
