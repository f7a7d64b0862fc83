package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

// InMemoryRepository backs tests and local tooling.
type InMemoryRepository struct {
	mu     sync.RWMutex
	items  map[int64]*FoodItem
	nextID int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[int64]*FoodItem)}
}

func (r *InMemoryRepository) Create(_ context.Context, item *FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now()
	item.ID = r.nextID
	item.State = core.Active
	item.CreatedAt, item.UpdatedAt = now, now

	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *InMemoryRepository) Update(_ context.Context, item *FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("food item %d: %w", item.ID, core.ErrNotFound)
	}

	item.UpdatedAt = time.Now()
	item.State = existing.State
	item.CreatedAt = existing.CreatedAt

	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id int64) (*FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("food item %d: %w", id, core.ErrNotFound)
	}
	out := *item
	return &out, nil
}

func (r *InMemoryRepository) List(_ context.Context, vis core.Visibility) ([]FoodItem, error) {
	return r.filter(func(it *FoodItem) bool { return vis.Admits(it.State) }), nil
}

func (r *InMemoryRepository) ListByCategory(
	_ context.Context,
	category Category,
	vis core.Visibility,
) ([]FoodItem, error) {
	return r.filter(func(it *FoodItem) bool {
		return it.Category == category && vis.Admits(it.State)
	}), nil
}

func (r *InMemoryRepository) Search(_ context.Context, text string) ([]FoodItem, error) {
	needle := strings.ToLower(text)
	return r.filter(func(it *FoodItem) bool {
		return it.State.IsActive() &&
			(strings.Contains(strings.ToLower(it.Name), needle) ||
				strings.Contains(strings.ToLower(it.NameLocal), needle))
	}), nil
}

func (r *InMemoryRepository) Deactivate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("food item %d: %w", id, core.ErrNotFound)
	}
	if item.State.IsActive() {
		item.State = core.Inactive
		item.UpdatedAt = time.Now()
	}
	return nil
}

func (r *InMemoryRepository) filter(keep func(*FoodItem) bool) []FoodItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []FoodItem{}
	for _, it := range r.items {
		if keep(it) {
			out = append(out, *it)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
