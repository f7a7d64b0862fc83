package menu

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/period"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------
// Mock food catalog
// --------------------------------------------------
type MockFoods struct {
	items map[int64]*core.FoodItemRef
}

func (m *MockFoods) FoodItemRef(_ context.Context, id int64) (*core.FoodItemRef, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("food item %d: %w", id, core.ErrNotFound)
	}
	return item, nil
}

const (
	riceID  int64 = 1
	dalID   int64 = 2
	stockID int64 = 3 // inactive
)

func newMockFoods() *MockFoods {
	forty := decimal.RequireFromString("40.00")
	return &MockFoods{items: map[int64]*core.FoodItemRef{
		riceID:  {ID: riceID, Name: "Rice", Unit: "KG", CostPerUnit: &forty, State: core.Active},
		dalID:   {ID: dalID, Name: "Toor Dal", Unit: "KG", State: core.Active},
		stockID: {ID: stockID, Name: "Old stock", Unit: "KG", State: core.Inactive},
	}}
}

func date(s string) time.Time {
	d, err := period.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(now string) *Service {
	clock := func() time.Time { return date(now).Add(10 * time.Hour) }
	return NewService(NewInMemoryRepository(), newMockFoods(), clock)
}

// --------------------------------------------------
// Create / Update
// --------------------------------------------------
func TestCreateMenu_DerivesMonthAndYear(t *testing.T) {
	svc := newTestService("2024-03-04")

	m, err := svc.CreateMenu(context.Background(), date("2024-03-04"), Lunch, "Rice and dal", "")
	require.NoError(t, err)

	assert.Equal(t, 3, m.Month)
	assert.Equal(t, 2024, m.Year)
	assert.Equal(t, core.Active, m.State)
}

func TestCreateMenu_DuplicateSlot(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	_, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)

	_, err = svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	assert.ErrorIs(t, err, core.ErrDuplicateMenu)
	assert.True(t, core.IsConflict(err))

	// a different meal type on the same date is fine
	_, err = svc.CreateMenu(ctx, date("2024-03-04"), Breakfast, "", "")
	assert.NoError(t, err)
}

func TestCreateMenu_MealTypeIsNormalised(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	_, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)

	_, err = svc.CreateMenu(ctx, date("2024-03-04"), MealType("lunch"), "", "")
	assert.ErrorIs(t, err, core.ErrDuplicateMenu)

	m, err := svc.CreateMenu(ctx, date("2024-03-05"), MealType(" snack "), "", "")
	require.NoError(t, err)
	assert.Equal(t, Snack, m.MealType)

	got, err := svc.GetByDateAndMealType(ctx, date("2024-03-05"), Snack)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
}

func TestCreateMenu_SlotFreedByDeactivation(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	first, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateMenu(ctx, first.ID))

	_, err = svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	assert.NoError(t, err)
}

func TestUpdateMenu_RederivesMonthAndYear(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	m, err := svc.CreateMenu(ctx, date("2024-03-31"), Lunch, "", "")
	require.NoError(t, err)

	next := date("2025-01-02")
	updated, err := svc.UpdateMenu(ctx, m.ID, Changes{Date: &next})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Month)
	assert.Equal(t, 2025, updated.Year)

	stored, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Month)
	assert.Equal(t, 2025, stored.Year)
	assert.True(t, stored.Date.Equal(next))
}

func TestUpdateMenu_CannotCollideWithAnotherActiveMenu(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	_, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)
	other, err := svc.CreateMenu(ctx, date("2024-03-05"), Lunch, "", "")
	require.NoError(t, err)

	clash := date("2024-03-04")
	_, err = svc.UpdateMenu(ctx, other.ID, Changes{Date: &clash})
	assert.ErrorIs(t, err, core.ErrDuplicateMenu)

	// updating a menu in place does not clash with itself
	desc := "Khichdi"
	_, err = svc.UpdateMenu(ctx, other.ID, Changes{Description: &desc})
	assert.NoError(t, err)
}

func TestUpdateMenu_InactiveIsNotFound(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	m, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateMenu(ctx, m.ID))

	desc := "late change"
	_, err = svc.UpdateMenu(ctx, m.ID, Changes{Description: &desc})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.UpdateMenu(ctx, 999, Changes{Description: &desc})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

// --------------------------------------------------
// Composition
// --------------------------------------------------
func TestAddFoodItem(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	m, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)

	line, err := svc.AddFoodItem(ctx, m.ID, riceID, qty("0.15"), "")
	require.NoError(t, err)
	assert.Equal(t, "Rice", line.FoodItemName)

	_, err = svc.AddFoodItem(ctx, m.ID, riceID, qty("0.2"), "")
	assert.ErrorIs(t, err, core.ErrDuplicateComposition)

	_, err = svc.AddFoodItem(ctx, m.ID, dalID, qty("-0.01"), "")
	assert.ErrorIs(t, err, core.ErrInvalidQuantity)

	_, err = svc.AddFoodItem(ctx, m.ID, dalID, qty("0.0001"), "")
	assert.ErrorIs(t, err, core.ErrValidationFailed)

	_, err = svc.AddFoodItem(ctx, m.ID, stockID, qty("0.1"), "")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.AddFoodItem(ctx, m.ID, 404, qty("0.1"), "")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.AddFoodItem(ctx, 404, riceID, qty("0.1"), "")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.AddFoodItem(ctx, m.ID, dalID, qty("0"), "to taste")
	require.NoError(t, err)

	lines, err := svc.Composition(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, riceID, lines[0].FoodItemID)
	assert.Equal(t, dalID, lines[1].FoodItemID)
}

func TestAddFoodItem_InactiveMenuIsNotFound(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	m, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateMenu(ctx, m.ID))

	_, err = svc.AddFoodItem(ctx, m.ID, riceID, qty("0.15"), "")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRemoveFoodItem_AbsentIsNoop(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	m, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)
	_, err = svc.AddFoodItem(ctx, m.ID, riceID, qty("0.15"), "")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFoodItem(ctx, m.ID, dalID))
	require.NoError(t, svc.RemoveFoodItem(ctx, m.ID, riceID))
	require.NoError(t, svc.RemoveFoodItem(ctx, m.ID, riceID))

	lines, err := svc.Composition(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestUpdateFoodItemQuantity(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	m, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)
	_, err = svc.AddFoodItem(ctx, m.ID, riceID, qty("0.15"), "cooked")
	require.NoError(t, err)

	line, err := svc.UpdateFoodItemQuantity(ctx, m.ID, riceID, qty("0.2"), nil)
	require.NoError(t, err)
	assert.True(t, line.QuantityPerStudent.Equal(qty("0.2")))
	assert.Equal(t, "cooked", line.Notes)

	_, err = svc.UpdateFoodItemQuantity(ctx, m.ID, riceID, qty("-1"), nil)
	assert.ErrorIs(t, err, core.ErrInvalidQuantity)

	_, err = svc.UpdateFoodItemQuantity(ctx, m.ID, dalID, qty("0.1"), nil)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeactivateMenu_KeepsComposition(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	m, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)
	_, err = svc.AddFoodItem(ctx, m.ID, riceID, qty("0.15"), "")
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateMenu(ctx, m.ID))
	require.NoError(t, svc.DeactivateMenu(ctx, m.ID))

	active, err := svc.ListAll(ctx, core.ActiveOnly)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListAll(ctx, core.IncludeInactive)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	lines, err := svc.Composition(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].QuantityPerStudent.Equal(qty("0.15")))

	_, err = svc.GetByDateAndMealType(ctx, date("2024-03-04"), Lunch)
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.ErrorIs(t, svc.DeactivateMenu(ctx, 404), core.ErrNotFound)
}

// --------------------------------------------------
// Listing
// --------------------------------------------------
func TestListForPeriod(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	for _, d := range []string{"2024-03-06", "2024-03-02", "2024-03-04", "2024-04-01"} {
		_, err := svc.CreateMenu(ctx, date(d), Lunch, "", "")
		require.NoError(t, err)
	}
	_, err := svc.CreateMenu(ctx, date("2024-03-04"), Breakfast, "", "")
	require.NoError(t, err)

	r := period.NewRange(date("2024-03-01"), date("2024-03-31"))
	menus, err := svc.ListForPeriod(ctx, r, "", core.ActiveOnly)
	require.NoError(t, err)
	require.Len(t, menus, 4)
	for i := 1; i < len(menus); i++ {
		assert.False(t, menus[i].Date.Before(menus[i-1].Date))
	}

	lunches, err := svc.ListForPeriod(ctx, r, Lunch, core.ActiveOnly)
	require.NoError(t, err)
	assert.Len(t, lunches, 3)

	reversed := period.NewRange(date("2024-03-31"), date("2024-03-01"))
	none, err := svc.ListForPeriod(ctx, reversed, "", core.ActiveOnly)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListForMonth(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	_, err := svc.CreateMenu(ctx, date("2024-03-31"), Lunch, "", "")
	require.NoError(t, err)
	_, err = svc.CreateMenu(ctx, date("2024-04-01"), Lunch, "", "")
	require.NoError(t, err)

	march, err := svc.ListForMonth(ctx, 3, 2024, core.ActiveOnly)
	require.NoError(t, err)
	assert.Len(t, march, 1)

	_, err = svc.ListForMonth(ctx, 13, 2024, core.ActiveOnly)
	assert.ErrorIs(t, err, core.ErrValidationFailed)
}

func TestCurrentWeekAndMonth(t *testing.T) {
	// Wednesday 2024-03-06: week is Mon 03-04 .. Sun 03-10
	svc := newTestService("2024-03-06")
	ctx := context.Background()

	for _, d := range []string{"2024-03-03", "2024-03-04", "2024-03-10", "2024-03-11"} {
		_, err := svc.CreateMenu(ctx, date(d), Lunch, "", "")
		require.NoError(t, err)
	}

	week, err := svc.CurrentWeek(ctx)
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.True(t, week[0].Date.Equal(date("2024-03-04")))
	assert.True(t, week[1].Date.Equal(date("2024-03-10")))

	month, err := svc.CurrentMonth(ctx)
	require.NoError(t, err)
	assert.Len(t, month, 4)
}

func TestMenuRef(t *testing.T) {
	svc := newTestService("2024-03-04")
	ctx := context.Background()

	m, err := svc.CreateMenu(ctx, date("2024-03-04"), Lunch, "", "")
	require.NoError(t, err)

	ref, err := svc.MenuRef(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Active, ref.State)

	_, err = svc.MenuRef(ctx, 404)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
