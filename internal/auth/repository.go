package auth

import (
	"context"

	"github.com/Abhigulve/mid-day-meal/internal/core"
)

// UserRepository defines the data-access contract.
// Service depends ONLY on this interface.
type UserRepository interface {
	// Save fails with core.ErrDuplicateUser when username or email is taken.
	Save(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, vis core.Visibility) ([]User, error)
	Deactivate(ctx context.Context, id string) error
}
