package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"

	"github.com/shopspring/decimal"
)

type Category string

const (
	Grains     Category = "GRAINS"
	Vegetables Category = "VEGETABLES"
	Fruits     Category = "FRUITS"
	Dairy      Category = "DAIRY"
	Proteins   Category = "PROTEINS"
	Spices     Category = "SPICES"
	Oil        Category = "OIL"
	Others     Category = "OTHERS"
)

var categories = map[Category]bool{
	Grains: true, Vegetables: true, Fruits: true, Dairy: true,
	Proteins: true, Spices: true, Oil: true, Others: true,
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !categories[c] {
		return "", fmt.Errorf("unknown category %q: %w", s, core.ErrValidationFailed)
	}
	return c, nil
}

type Unit string

const (
	KG     Unit = "KG"
	Gram   Unit = "GRAM"
	Litre  Unit = "LITRE"
	ML     Unit = "ML"
	Piece  Unit = "PIECE"
	Packet Unit = "PACKET"
	Bag    Unit = "BAG"
)

var units = map[Unit]bool{
	KG: true, Gram: true, Litre: true, ML: true, Piece: true, Packet: true, Bag: true,
}

func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToUpper(strings.TrimSpace(s)))
	if !units[u] {
		return "", fmt.Errorf("unknown unit %q: %w", s, core.ErrValidationFailed)
	}
	return u, nil
}

// CostScale is the number of decimal places stored for cost per unit.
const CostScale = 2

// FoodItem is a catalog entry. CostPerUnit is nil when the price is unknown.
type FoodItem struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	NameLocal       string           `json:"name_local"`
	Description     string           `json:"description"`
	Category        Category         `json:"category"`
	Unit            Unit             `json:"unit"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit"`
	NutritionalInfo string           `json:"nutritional_info"`
	State           core.State       `json:"state"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Input carries the writable fields of a food item. Nil fields are left
// untouched on update.
type Input struct {
	Name            *string          `json:"name"`
	NameLocal       *string          `json:"name_local"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category"`
	Unit            *string          `json:"unit"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit"`
	NutritionalInfo *string          `json:"nutritional_info"`
}
