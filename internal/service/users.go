package service

import (
	"context"

	"github.com/gamenight/users-service/internal/errs"
	"github.com/gamenight/users-service/internal/model"
	"github.com/gamenight/users-service/internal/repository"
)

// UserService defines profile read and mutation operations.
type UserService interface {
	// List returns one page of users; errs.ErrNotFound when the page is
	// beyond the data.
	List(ctx context.Context, pageSize, pageNumber int) ([]model.User, error)
	// Get returns a single user by id.
	Get(ctx context.Context, id string) (*model.User, error)
	// UpdateProfile replaces the profile fields of an existing user.
	UpdateProfile(ctx context.Context, u model.User) error
	// ReplaceFavorites atomically replaces the favorites set.
	ReplaceFavorites(ctx context.Context, userID string, favoriteIDs []int64) error
}

type UserServiceImpl struct {
	users repository.UserRepository
}

// NewUserService constructs UserService over a repository.
func NewUserService(users repository.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

// List returns one page of users.
func (s *UserServiceImpl) List(ctx context.Context, pageSize, pageNumber int) ([]model.User, error) {
	return s.users.Lookup(ctx, nil, pageSize, pageNumber)
}

// Get returns a single user by id.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (*model.User, error) {
	users, err := s.users.Lookup(ctx, []string{id}, 0, 0)
	if err != nil {
		return nil, err
	}
	return &users[0], nil
}

// UpdateProfile replaces the profile fields of an existing user; the id
// itself is immutable.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, u model.User) error {
	ok, err := s.users.Update(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrNotFound
	}
	return nil
}

// ReplaceFavorites atomically replaces the favorites set for a user.
func (s *UserServiceImpl) ReplaceFavorites(ctx context.Context, userID string, favoriteIDs []int64) error {
	ok, err := s.users.ReplaceFavorites(ctx, userID, favoriteIDs)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrNotFound
	}
	return nil
}
