package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abhigulve/mid-day-meal/internal/core"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// --------------------------------------------------
// Create
// --------------------------------------------------
func (s *Service) Create(ctx context.Context, in Input) (*FoodItem, error) {
	if in.Name == nil || in.Category == nil || in.Unit == nil {
		return nil, fmt.Errorf("name, category and unit are required: %w", core.ErrValidationFailed)
	}

	item := &FoodItem{}
	if err := apply(item, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	log.Info().Int64("food_item_id", item.ID).Str("name", item.Name).Msg("food item created")
	return item, nil
}

// --------------------------------------------------
// Update
// --------------------------------------------------
func (s *Service) Update(ctx context.Context, id int64, in Input) (*FoodItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(item, in); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// apply validates the input against the merged result before any field of
// item is considered final; callers discard item on error.
func apply(item *FoodItem, in Input) error {
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if item.Name == "" {
		return fmt.Errorf("name must not be blank: %w", core.ErrValidationFailed)
	}

	if in.NameLocal != nil {
		item.NameLocal = strings.TrimSpace(*in.NameLocal)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.NutritionalInfo != nil {
		item.NutritionalInfo = *in.NutritionalInfo
	}

	if in.Category != nil {
		c, err := ParseCategory(*in.Category)
		if err != nil {
			return err
		}
		item.Category = c
	}
	if in.Unit != nil {
		u, err := ParseUnit(*in.Unit)
		if err != nil {
			return err
		}
		item.Unit = u
	}

	if in.CostPerUnit != nil {
		if err := ValidateCost(*in.CostPerUnit); err != nil {
			return err
		}
		cost := *in.CostPerUnit
		item.CostPerUnit = &cost
	}
	return nil
}

// ValidateCost rejects negative costs and costs finer than the stored scale.
func ValidateCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return fmt.Errorf("cost per unit %s: %w", cost, core.ErrInvalidQuantity)
	}
	if !cost.Equal(cost.Round(CostScale)) {
		return fmt.Errorf("cost per unit %s has more than %d decimal places: %w",
			cost, CostScale, core.ErrValidationFailed)
	}
	return nil
}

// --------------------------------------------------
// Reads
// --------------------------------------------------
func (s *Service) Get(ctx context.Context, id int64) (*FoodItem, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, vis core.Visibility) ([]FoodItem, error) {
	return s.repo.List(ctx, vis)
}

func (s *Service) ListByCategory(ctx context.Context, category string, vis core.Visibility) ([]FoodItem, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCategory(ctx, c, vis)
}

// Search returns active items whose name or local name contains text.
// Blank text yields every active item.
func (s *Service) Search(ctx context.Context, text string) ([]FoodItem, error) {
	return s.repo.Search(ctx, strings.TrimSpace(text))
}

// Deactivate is idempotent; only an unknown id is an error.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("food_item_id", id).Msg("food item deactivated")
	return nil
}

// FoodItemRef satisfies core.FoodItemReader for the menu composer.
func (s *Service) FoodItemRef(ctx context.Context, id int64) (*core.FoodItemRef, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &core.FoodItemRef{
		ID:          item.ID,
		Name:        item.Name,
		Unit:        string(item.Unit),
		CostPerUnit: item.CostPerUnit,
		State:       item.State,
	}, nil
}
