package mealrecord

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

type key struct {
	school, menu int64
	date         time.Time
}

// InMemoryRepository enforces the (school, menu, date) key under its lock,
// so concurrent Creates of the same triple have exactly one winner.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[int64]*MealRecord
	byKey   map[key]int64
	nextID  int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[int64]*MealRecord),
		byKey:   make(map[key]int64),
	}
}

func keyOf(schoolID, menuID int64, date time.Time) key {
	return key{school: schoolID, menu: menuID, date: date.UTC()}
}

func (r *InMemoryRepository) Create(_ context.Context, rec *MealRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := keyOf(rec.SchoolID, rec.MenuID, rec.Date)
	if _, taken := r.byKey[k]; taken {
		return fmt.Errorf("school %d, menu %d, %s: %w",
			rec.SchoolID, rec.MenuID, rec.Date.Format("2006-01-02"), core.ErrDuplicateRecord)
	}

	r.nextID++
	now := time.Now()
	rec.ID = r.nextID
	rec.CreatedAt, rec.UpdatedAt = now, now

	stored := *rec
	r.records[rec.ID] = &stored
	r.byKey[k] = rec.ID
	return nil
}

func (r *InMemoryRepository) Update(_ context.Context, rec *MealRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[rec.ID]
	if !ok {
		return fmt.Errorf("meal record %d: %w", rec.ID, core.ErrNotFound)
	}

	existing.StudentsPresent = rec.StudentsPresent
	existing.MealsServed = rec.MealsServed
	existing.Quality = rec.Quality
	existing.TeacherInCharge = rec.TeacherInCharge
	existing.Remarks = rec.Remarks
	existing.PhotoURL = rec.PhotoURL
	existing.UpdatedAt = time.Now()
	rec.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, id int64) (*MealRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("meal record %d: %w", id, core.ErrNotFound)
	}
	out := *rec
	return &out, nil
}

func (r *InMemoryRepository) Find(
	ctx context.Context,
	schoolID int64,
	menuID int64,
	date time.Time,
) (*MealRecord, error) {
	r.mu.RLock()
	id, ok := r.byKey[keyOf(schoolID, menuID, date)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("meal record for school %d, menu %d, %s: %w",
			schoolID, menuID, date.Format("2006-01-02"), core.ErrNotFound)
	}
	return r.Get(ctx, id)
}

func (r *InMemoryRepository) List(_ context.Context, f Filter) ([]MealRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []MealRecord{}
	for _, rec := range r.records {
		if f.Admits(rec) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("meal record %d: %w", id, core.ErrNotFound)
	}
	delete(r.byKey, keyOf(rec.SchoolID, rec.MenuID, rec.Date))
	delete(r.records, id)
	return nil
}
