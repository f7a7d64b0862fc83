package report

import (
	"encoding/json"

	"github.com/Abhigulve/mid-day-meal/internal/catalog"
	"github.com/Abhigulve/mid-day-meal/internal/menu"

	"github.com/shopspring/decimal"
)

// Quantities and money go out as strings at their stored scale, so 15 KG
// reads "15.000" and 600 reads "600.00".

func quantityString(d decimal.Decimal) string {
	return d.StringFixed(menu.QuantityScale)
}

func moneyString(d decimal.Decimal) string {
	return d.StringFixed(catalog.CostScale)
}

type planLineJSON struct {
	FoodItemID         int64   `json:"food_item_id"`
	FoodItemName       string  `json:"food_item_name"`
	Unit               string  `json:"unit"`
	QuantityPerStudent string  `json:"quantity_per_student"`
	CostPerUnit        *string `json:"cost_per_unit"`
}

func (p PlanLine) view() planLineJSON {
	v := planLineJSON{
		FoodItemID:         p.FoodItemID,
		FoodItemName:       p.FoodItemName,
		Unit:               p.Unit,
		QuantityPerStudent: quantityString(p.QuantityPerStudent),
	}
	if p.CostPerUnit != nil {
		cost := moneyString(*p.CostPerUnit)
		v.CostPerUnit = &cost
	}
	return v
}

func (p PlanLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.view())
}

// ConsumptionLine embeds PlanLine, so it must spell out its own encoding
// or the promoted PlanLine method would drop Quantity and Cost.
func (l ConsumptionLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		planLineJSON
		Quantity string `json:"quantity"`
		Cost     string `json:"cost"`
	}{
		planLineJSON: l.PlanLine.view(),
		Quantity:     quantityString(l.Quantity),
		Cost:         moneyString(l.Cost),
	})
}

func (e Estimate) MarshalJSON() ([]byte, error) {
	type plain Estimate
	return json.Marshal(struct {
		plain
		TotalCost string `json:"total_cost"`
	}{plain(e), moneyString(e.TotalCost)})
}

func (s SchoolSummary) MarshalJSON() ([]byte, error) {
	type plain SchoolSummary
	return json.Marshal(struct {
		plain
		EstimatedCost string `json:"estimated_cost"`
	}{plain(s), moneyString(s.EstimatedCost)})
}

func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		EstimatedCost string `json:"estimated_cost"`
	}{plain(s), moneyString(s.EstimatedCost)})
}
