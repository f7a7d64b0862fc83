package auth

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"

	"github.com/google/uuid"
)

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*User),
	}
}

func (r *InMemoryUserRepository) Save(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || (user.Email != "" && u.Email == user.Email) {
			return fmt.Errorf("user %q: %w", user.Username, core.ErrDuplicateUser)
		}
	}

	// Generate UUID if not already set
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.State = core.Active
	user.CreatedAt = time.Now()

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *InMemoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
}

func (r *InMemoryUserRepository) Get(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (r *InMemoryUserRepository) List(_ context.Context, vis core.Visibility) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []User{}
	for _, u := range r.users {
		if vis.Admits(u.State) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *InMemoryUserRepository) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	u.State = core.Inactive
	return nil
}
