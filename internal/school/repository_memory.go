package school

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	schools map[int64]*School
	nextID  int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{schools: make(map[int64]*School)}
}

func (r *InMemoryRepository) codeTaken(self int64, code string) bool {
	for id, s := range r.schools {
		if id != self && s.Code == code {
			return true
		}
	}
	return false
}

func (r *InMemoryRepository) Create(_ context.Context, s *School) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codeTaken(0, s.Code) {
		return fmt.Errorf("school code %q: %w", s.Code, core.ErrDuplicateSchoolCode)
	}

	r.nextID++
	now := time.Now()
	s.ID = r.nextID
	s.Lifecycle = core.Active
	s.CreatedAt, s.UpdatedAt = now, now

	stored := *s
	r.schools[s.ID] = &stored
	return nil
}

func (r *InMemoryRepository) Update(_ context.Context, s *School) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.schools[s.ID]
	if !ok {
		return fmt.Errorf("school %d: %w", s.ID, core.ErrNotFound)
	}
	if r.codeTaken(s.ID, s.Code) {
		return fmt.Errorf("school code %q: %w", s.Code, core.ErrDuplicateSchoolCode)
	}

	s.Lifecycle = existing.Lifecycle
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now()

	stored := *s
	r.schools[s.ID] = &stored
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id int64) (*School, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schools[id]
	if !ok {
		return nil, fmt.Errorf("school %d: %w", id, core.ErrNotFound)
	}
	out := *s
	return &out, nil
}

func (r *InMemoryRepository) GetByCode(_ context.Context, code string) (*School, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.schools {
		if s.Code == code {
			out := *s
			return &out, nil
		}
	}
	return nil, fmt.Errorf("school %q: %w", code, core.ErrNotFound)
}

func (r *InMemoryRepository) List(_ context.Context, vis core.Visibility) ([]School, error) {
	return r.filter(func(s *School) bool { return vis.Admits(s.Lifecycle) }), nil
}

func (r *InMemoryRepository) Search(_ context.Context, text string) ([]School, error) {
	needle := strings.ToLower(text)
	return r.filter(func(s *School) bool {
		return s.Lifecycle.IsActive() &&
			(strings.Contains(strings.ToLower(s.Name), needle) ||
				strings.Contains(strings.ToLower(s.Code), needle) ||
				strings.Contains(strings.ToLower(s.City), needle))
	}), nil
}

func (r *InMemoryRepository) ListByCity(_ context.Context, city string) ([]School, error) {
	return r.filter(func(s *School) bool {
		return s.Lifecycle.IsActive() && strings.EqualFold(s.City, city)
	}), nil
}

func (r *InMemoryRepository) ListByState(_ context.Context, state string) ([]School, error) {
	return r.filter(func(s *School) bool {
		return s.Lifecycle.IsActive() && strings.EqualFold(s.State, state)
	}), nil
}

func (r *InMemoryRepository) CountActive(ctx context.Context) (int64, error) {
	active, _ := r.List(ctx, core.ActiveOnly)
	return int64(len(active)), nil
}

func (r *InMemoryRepository) Deactivate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schools[id]
	if !ok {
		return fmt.Errorf("school %d: %w", id, core.ErrNotFound)
	}
	if s.Lifecycle.IsActive() {
		s.Lifecycle = core.Inactive
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (r *InMemoryRepository) filter(keep func(*School) bool) []School {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []School{}
	for _, s := range r.schools {
		if keep(s) {
			out = append(out, *s)
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
