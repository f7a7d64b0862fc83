package menu

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

// InMemoryRepository mirrors the Postgres uniqueness rules under one mutex.
type InMemoryRepository struct {
	mu       sync.RWMutex
	menus    map[int64]*Menu
	lines    map[int64][]MenuFoodItem
	nextID   int64
	nextLine int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		menus: make(map[int64]*Menu),
		lines: make(map[int64][]MenuFoodItem),
	}
}

// activeClash reports an active menu other than self on the same slot.
// Callers hold the lock.
func (r *InMemoryRepository) activeClash(self int64, date time.Time, mealType MealType) bool {
	for id, m := range r.menus {
		if id != self && m.State.IsActive() && m.Date.Equal(date) && m.MealType == mealType {
			return true
		}
	}
	return false
}

func (r *InMemoryRepository) Create(_ context.Context, m *Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeClash(0, m.Date, m.MealType) {
		return fmt.Errorf("menu %s/%s: %w", m.Date.Format("2006-01-02"), m.MealType, core.ErrDuplicateMenu)
	}

	r.nextID++
	now := time.Now()
	m.ID = r.nextID
	m.State = core.Active
	m.CreatedAt, m.UpdatedAt = now, now
	m.FoodItems = []MenuFoodItem{}

	stored := *m
	r.menus[m.ID] = &stored
	return nil
}

func (r *InMemoryRepository) Update(_ context.Context, m *Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.menus[m.ID]
	if !ok || !existing.State.IsActive() {
		return fmt.Errorf("menu %d: %w", m.ID, core.ErrNotFound)
	}
	if r.activeClash(m.ID, m.Date, m.MealType) {
		return fmt.Errorf("menu %d: %w", m.ID, core.ErrDuplicateMenu)
	}

	existing.Date = m.Date
	existing.MealType = m.MealType
	existing.Description = m.Description
	existing.DescriptionLocal = m.DescriptionLocal
	existing.Month = m.Month
	existing.Year = m.Year
	existing.UpdatedAt = time.Now()
	m.UpdatedAt = existing.UpdatedAt
	return nil
}

// withLines copies m and attaches its composition. Callers hold the lock.
func (r *InMemoryRepository) withLines(m *Menu) Menu {
	out := *m
	out.FoodItems = append([]MenuFoodItem{}, r.lines[m.ID]...)
	return out
}

func (r *InMemoryRepository) Get(_ context.Context, id int64) (*Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.menus[id]
	if !ok {
		return nil, fmt.Errorf("menu %d: %w", id, core.ErrNotFound)
	}
	out := r.withLines(m)
	return &out, nil
}

func (r *InMemoryRepository) GetActiveByDateAndMealType(
	_ context.Context,
	date time.Time,
	mealType MealType,
) (*Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.menus {
		if m.State.IsActive() && m.Date.Equal(date) && m.MealType == mealType {
			out := r.withLines(m)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("menu %s/%s: %w", date.Format("2006-01-02"), mealType, core.ErrNotFound)
}

func (r *InMemoryRepository) List(_ context.Context, f Filter) ([]Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Menu{}
	for _, m := range r.menus {
		if f.Admits(m) {
			out = append(out, r.withLines(m))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].MealType != out[j].MealType {
			return out[i].MealType < out[j].MealType
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *InMemoryRepository) Deactivate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.menus[id]
	if !ok {
		return fmt.Errorf("menu %d: %w", id, core.ErrNotFound)
	}
	if m.State.IsActive() {
		m.State = core.Inactive
		m.UpdatedAt = time.Now()
	}
	return nil
}

func (r *InMemoryRepository) AddFoodItem(_ context.Context, item *MenuFoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.menus[item.MenuID]; !ok {
		return fmt.Errorf("menu %d: %w", item.MenuID, core.ErrNotFound)
	}
	for _, l := range r.lines[item.MenuID] {
		if l.FoodItemID == item.FoodItemID {
			return fmt.Errorf("food item %d on menu %d: %w",
				item.FoodItemID, item.MenuID, core.ErrDuplicateComposition)
		}
	}

	r.nextLine++
	item.ID = r.nextLine
	item.CreatedAt = time.Now()
	r.lines[item.MenuID] = append(r.lines[item.MenuID], *item)
	return nil
}

func (r *InMemoryRepository) RemoveFoodItem(_ context.Context, menuID, foodItemID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := r.lines[menuID]
	for i, l := range lines {
		if l.FoodItemID == foodItemID {
			r.lines[menuID] = append(lines[:i:i], lines[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InMemoryRepository) UpdateFoodItem(_ context.Context, item *MenuFoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.lines[item.MenuID] {
		if l.FoodItemID == item.FoodItemID {
			l.QuantityPerStudent = item.QuantityPerStudent
			l.Notes = item.Notes
			r.lines[item.MenuID][i] = l
			*item = l
			return nil
		}
	}
	return fmt.Errorf("food item %d on menu %d: %w", item.FoodItemID, item.MenuID, core.ErrNotFound)
}

func (r *InMemoryRepository) Composition(_ context.Context, menuID int64) ([]MenuFoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]MenuFoodItem{}, r.lines[menuID]...), nil
}
