// Package repository defines persistence interfaces implemented by concrete stores.
package repository

import (
	"context"

	"github.com/gamenight/users-service/internal/model"
)

// UserRepository is the persistence contract for user profiles and their
// favorite-activities set.
type UserRepository interface {
	// Lookup returns users restricted to the given id set (empty means no
	// filter), paginated when pageSize > 0. Returns errs.ErrNotFound when
	// zero ids match.
	Lookup(ctx context.Context, ids []string, pageSize, pageNumber int) ([]model.User, error)
	// UpsertStub reserves an identity by inserting an id-only row. Reports
	// whether the row was freshly created; an existing profile is left
	// untouched.
	UpsertStub(ctx context.Context, id string) (bool, error)
	// Update replaces the profile fields of an existing user. Reports false
	// when the id does not exist.
	Update(ctx context.Context, u model.User) (bool, error)
	// ReplaceFavorites atomically replaces the favorites set. Reports false
	// when the replace could not be applied; the previous set is then
	// unchanged.
	ReplaceFavorites(ctx context.Context, userID string, favoriteIDs []int64) (bool, error)
}
