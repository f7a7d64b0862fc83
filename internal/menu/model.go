package menu

import (
	"fmt"
	"strings"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/period"

	"github.com/shopspring/decimal"
)

type MealType string

const (
	Breakfast MealType = "BREAKFAST"
	Lunch     MealType = "LUNCH"
	Snack     MealType = "SNACK"
	Dinner    MealType = "DINNER"
)

func ParseMealType(s string) (MealType, error) {
	switch t := MealType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Breakfast, Lunch, Snack, Dinner:
		return t, nil
	default:
		return "", fmt.Errorf("unknown meal type %q: %w", s, core.ErrValidationFailed)
	}
}

// QuantityScale is the number of decimal places stored for per-student
// quantities.
const QuantityScale = 3

// Menu is the plan for one meal on one date. Month and Year always mirror
// Date; set the date through SetDate.
type Menu struct {
	ID               int64          `json:"id"`
	Date             time.Time      `json:"date"`
	MealType         MealType       `json:"meal_type"`
	Description      string         `json:"description"`
	DescriptionLocal string         `json:"description_local"`
	Month            int            `json:"month"`
	Year             int            `json:"year"`
	State            core.State     `json:"state"`
	FoodItems        []MenuFoodItem `json:"food_items"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// SetDate stores d as a civil date and re-derives month and year.
func (m *Menu) SetDate(d time.Time) {
	m.Date = period.Day(d)
	m.Month, m.Year = period.MonthYear(m.Date)
}

// MenuFoodItem is one line of a menu's composition. A food item appears at
// most once per menu.
type MenuFoodItem struct {
	ID                 int64           `json:"id"`
	MenuID             int64           `json:"menu_id"`
	FoodItemID         int64           `json:"food_item_id"`
	FoodItemName       string          `json:"food_item_name"`
	Unit               string          `json:"unit"`
	QuantityPerStudent decimal.Decimal `json:"quantity_per_student"`
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Changes holds the optional fields of UpdateMenu.
type Changes struct {
	Date             *time.Time
	MealType         *MealType
	Description      *string
	DescriptionLocal *string
}

// Filter selects menus for listing. Zero values mean "any".
type Filter struct {
	Range      *period.Range
	Month      int
	Year       int
	MealType   MealType
	Visibility core.Visibility
}

// Admits applies the filter to a single menu.
func (f Filter) Admits(m *Menu) bool {
	if !f.Visibility.Admits(m.State) {
		return false
	}
	if f.Range != nil && !f.Range.Contains(m.Date) {
		return false
	}
	if f.Month != 0 && (m.Month != f.Month || m.Year != f.Year) {
		return false
	}
	return f.MealType == "" || m.MealType == f.MealType
}
