package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Reader interfaces let components look each other up without importing
// one another's packages.

type SchoolRef struct {
	ID    int64
	Name  string
	Code  string
	State State
}

type SchoolReader interface {
	SchoolRef(ctx context.Context, id int64) (*SchoolRef, error)
	CountActive(ctx context.Context) (int64, error)
}

type MenuRef struct {
	ID    int64
	State State
}

type MenuReader interface {
	MenuRef(ctx context.Context, id int64) (*MenuRef, error)
}

type FoodItemRef struct {
	ID          int64
	Name        string
	Unit        string
	CostPerUnit *decimal.Decimal
	State       State
}

type FoodItemReader interface {
	FoodItemRef(ctx context.Context, id int64) (*FoodItemRef, error)
}
