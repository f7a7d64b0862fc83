package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanLine is one composition line of a menu joined with its food item.
// CostPerUnit is nil when the catalog has no price.
type PlanLine struct {
	FoodItemID         int64            `json:"food_item_id"`
	FoodItemName       string           `json:"food_item_name"`
	Unit               string           `json:"unit"`
	QuantityPerStudent decimal.Decimal  `json:"quantity_per_student"`
	CostPerUnit        *decimal.Decimal `json:"cost_per_unit"`
}

// ConsumptionLine is the estimated amount of one food item for a head count.
type ConsumptionLine struct {
	PlanLine
	Quantity decimal.Decimal `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

type Estimate struct {
	MenuID          int64             `json:"menu_id"`
	StudentsPresent int               `json:"students_present"`
	Lines           []ConsumptionLine `json:"lines"`
	TotalCost       decimal.Decimal   `json:"total_cost"`
}

type Totals struct {
	Records         int64 `json:"records"`
	MealsServed     int64 `json:"meals_served"`
	StudentsPresent int64 `json:"students_present"`
}

// Serving is one meal record with the per-student cost of its menu.
type Serving struct {
	RecordID        int64           `json:"record_id"`
	SchoolID        int64           `json:"school_id"`
	SchoolName      string          `json:"school_name"`
	SchoolCode      string          `json:"school_code"`
	MenuID          int64           `json:"menu_id"`
	MealType        string          `json:"meal_type"`
	Date            time.Time       `json:"date"`
	StudentsPresent int             `json:"students_present"`
	MealsServed     int             `json:"meals_served"`
	CostPerStudent  decimal.Decimal `json:"cost_per_student"`
}

// EstimatedCost prices the serving by the students present.
func (s Serving) EstimatedCost() decimal.Decimal {
	return s.CostPerStudent.Mul(decimal.NewFromInt(int64(s.StudentsPresent)))
}

type SchoolSummary struct {
	SchoolID      int64           `json:"school_id"`
	SchoolName    string          `json:"school_name"`
	SchoolCode    string          `json:"school_code"`
	Totals        Totals          `json:"totals"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

type Summary struct {
	Start         time.Time       `json:"start_date"`
	End           time.Time       `json:"end_date"`
	Schools       []SchoolSummary `json:"schools"`
	Totals        Totals          `json:"totals"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

type DashboardStats struct {
	ActiveSchools   int64  `json:"active_schools"`
	ActiveFoodItems int64  `json:"active_food_items"`
	MenusThisMonth  int64  `json:"menus_this_month"`
	Today           Totals `json:"today"`
	ThisMonth       Totals `json:"this_month"`
}
