// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/eventboard/eventboard/internal/model"
)

// UserRepository provides account storage. Username uniqueness is
// enforced by the backend; Create surfaces a duplicate as
// errs.ErrAlreadyExists so concurrent registrations end in a conflict,
// never a silently-lost write.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// List returns all users.
	List(ctx context.Context) ([]model.User, error)
	// Delete removes a user by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
