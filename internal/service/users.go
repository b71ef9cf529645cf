package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/eventboard/eventboard/internal/model"
	"github.com/eventboard/eventboard/internal/repository"
)

// UserService defines administrative operations over accounts. Role
// enforcement happens at the route level (admin-only).
type UserService interface {
	// List returns public views of all accounts.
	List(ctx context.Context) ([]model.PublicUser, error)
	// Delete removes an account by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserServiceImpl struct {
	users repository.UserRepository
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

// List returns all accounts as public views, never exposing hashes.
func (s *UserServiceImpl) List(ctx context.Context) ([]model.PublicUser, error) {
	us, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicUser, 0, len(us))
	for i := range us {
		out = append(out, us[i].Public())
	}
	return out, nil
}

// Delete removes an account by ID.
func (s *UserServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
