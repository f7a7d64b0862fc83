package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/period"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo  Repository
	foods core.FoodItemReader
	now   period.Clock
}

// NewService wires the composer. A nil clock means time.Now.
func NewService(repo Repository, foods core.FoodItemReader, clock period.Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, foods: foods, now: clock}
}

// --------------------------------------------------
// Create Menu (ONE ACTIVE MENU PER DATE + MEAL TYPE)
// --------------------------------------------------
func (s *Service) CreateMenu(
	ctx context.Context,
	date time.Time,
	mealType MealType,
	description string,
	descriptionLocal string,
) (*Menu, error) {

	mealType, err := ParseMealType(string(mealType))
	if err != nil {
		return nil, err
	}

	m := &Menu{
		MealType:         mealType,
		Description:      description,
		DescriptionLocal: descriptionLocal,
	}
	m.SetDate(date)

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	log.Info().
		Int64("menu_id", m.ID).
		Time("date", m.Date).
		Str("meal_type", string(m.MealType)).
		Msg("menu created")
	return m, nil
}

// --------------------------------------------------
// Update Menu
// --------------------------------------------------

// UpdateMenu applies the non-nil changes to an active menu. The slot it
// moves to must not be held by another active menu.
func (s *Service) UpdateMenu(ctx context.Context, id int64, ch Changes) (*Menu, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.State.IsActive() {
		return nil, fmt.Errorf("menu %d is inactive: %w", id, core.ErrNotFound)
	}

	if ch.Date != nil {
		m.SetDate(*ch.Date)
	}
	if ch.MealType != nil {
		t, err := ParseMealType(string(*ch.MealType))
		if err != nil {
			return nil, err
		}
		m.MealType = t
	}
	if ch.Description != nil {
		m.Description = *ch.Description
	}
	if ch.DescriptionLocal != nil {
		m.DescriptionLocal = *ch.DescriptionLocal
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// --------------------------------------------------
// Composition
// --------------------------------------------------

// ValidateQuantity rejects negative quantities and quantities finer than
// the stored scale.
func ValidateQuantity(q decimal.Decimal) error {
	if q.IsNegative() {
		return fmt.Errorf("quantity per student %s: %w", q, core.ErrInvalidQuantity)
	}
	if !q.Equal(q.Round(QuantityScale)) {
		return fmt.Errorf("quantity per student %s has more than %d decimal places: %w",
			q, QuantityScale, core.ErrValidationFailed)
	}
	return nil
}

func (s *Service) AddFoodItem(
	ctx context.Context,
	menuID int64,
	foodItemID int64,
	quantity decimal.Decimal,
	notes string,
) (*MenuFoodItem, error) {

	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	if _, err := s.activeMenu(ctx, menuID); err != nil {
		return nil, err
	}

	food, err := s.foods.FoodItemRef(ctx, foodItemID)
	if err != nil {
		return nil, err
	}
	if !food.State.IsActive() {
		return nil, fmt.Errorf("food item %d is inactive: %w", foodItemID, core.ErrNotFound)
	}

	line := &MenuFoodItem{
		MenuID:             menuID,
		FoodItemID:         foodItemID,
		FoodItemName:       food.Name,
		Unit:               food.Unit,
		QuantityPerStudent: quantity,
		Notes:              notes,
	}
	if err := s.repo.AddFoodItem(ctx, line); err != nil {
		return nil, err
	}

	log.Debug().
		Int64("menu_id", menuID).
		Int64("food_item_id", foodItemID).
		Str("quantity", quantity.String()).
		Msg("food item added to menu")
	return line, nil
}

// RemoveFoodItem is a no-op when the food item is not on the menu.
func (s *Service) RemoveFoodItem(ctx context.Context, menuID, foodItemID int64) error {
	return s.repo.RemoveFoodItem(ctx, menuID, foodItemID)
}

// UpdateFoodItemQuantity changes the quantity of an existing line. Nil notes
// keep the current notes.
func (s *Service) UpdateFoodItemQuantity(
	ctx context.Context,
	menuID int64,
	foodItemID int64,
	quantity decimal.Decimal,
	notes *string,
) (*MenuFoodItem, error) {

	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	lines, err := s.repo.Composition(ctx, menuID)
	if err != nil {
		return nil, err
	}

	for _, l := range lines {
		if l.FoodItemID != foodItemID {
			continue
		}
		l.QuantityPerStudent = quantity
		if notes != nil {
			l.Notes = *notes
		}
		if err := s.repo.UpdateFoodItem(ctx, &l); err != nil {
			return nil, err
		}
		return &l, nil
	}
	return nil, fmt.Errorf("food item %d on menu %d: %w", foodItemID, menuID, core.ErrNotFound)
}

// Composition returns a menu's lines whether the menu is active or not.
func (s *Service) Composition(ctx context.Context, menuID int64) ([]MenuFoodItem, error) {
	if _, err := s.repo.Get(ctx, menuID); err != nil {
		return nil, err
	}
	return s.repo.Composition(ctx, menuID)
}

// --------------------------------------------------
// Deactivate (SOFT DELETE, COMPOSITION KEPT)
// --------------------------------------------------
func (s *Service) DeactivateMenu(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("menu_id", id).Msg("menu deactivated")
	return nil
}

// --------------------------------------------------
// Reads
// --------------------------------------------------
func (s *Service) Get(ctx context.Context, id int64) (*Menu, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByDateAndMealType(
	ctx context.Context,
	date time.Time,
	mealType MealType,
) (*Menu, error) {
	mealType, err := ParseMealType(string(mealType))
	if err != nil {
		return nil, err
	}
	return s.repo.GetActiveByDateAndMealType(ctx, period.Day(date), mealType)
}

func (s *Service) ListAll(ctx context.Context, vis core.Visibility) ([]Menu, error) {
	return s.repo.List(ctx, Filter{Visibility: vis})
}

func (s *Service) ListForMonth(ctx context.Context, month, year int, vis core.Visibility) ([]Menu, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range: %w", month, core.ErrValidationFailed)
	}
	return s.repo.List(ctx, Filter{Month: month, Year: year, Visibility: vis})
}

// ListForPeriod returns menus dated within r in ascending date order. An
// empty mealType matches every meal type; a reversed range matches nothing.
func (s *Service) ListForPeriod(
	ctx context.Context,
	r period.Range,
	mealType MealType,
	vis core.Visibility,
) ([]Menu, error) {

	if mealType != "" {
		t, err := ParseMealType(string(mealType))
		if err != nil {
			return nil, err
		}
		mealType = t
	}
	if r.Empty() {
		return []Menu{}, nil
	}
	return s.repo.List(ctx, Filter{Range: &r, MealType: mealType, Visibility: vis})
}

// CurrentWeek lists active menus from Monday to Sunday of the current week.
func (s *Service) CurrentWeek(ctx context.Context) ([]Menu, error) {
	return s.ListForPeriod(ctx, period.Week(s.now()), "", core.ActiveOnly)
}

func (s *Service) CurrentMonth(ctx context.Context) ([]Menu, error) {
	month, year := period.MonthYear(s.now())
	return s.ListForMonth(ctx, month, year, core.ActiveOnly)
}

// MenuRef satisfies core.MenuReader for the ledger.
func (s *Service) MenuRef(ctx context.Context, id int64) (*core.MenuRef, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &core.MenuRef{ID: m.ID, State: m.State}, nil
}

func (s *Service) activeMenu(ctx context.Context, id int64) (*Menu, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.State.IsActive() {
		return nil, fmt.Errorf("menu %d is inactive: %w", id, core.ErrNotFound)
	}
	return m, nil
}

var _ core.MenuReader = (*Service)(nil)
