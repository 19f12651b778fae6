package httpapi

import (
	"context"

	"github.com/gamenight/users-service/internal/model"
)

type ctxKey string

const identityKey ctxKey = "users.identity"

// Identity is the resolved token identity attached to authorized requests.
type Identity struct {
	UserID string
	Perms  []model.Permission
}

// IsAdmin reports whether the identity carries the admin permission.
func (id Identity) IsAdmin() bool {
	for _, p := range id.Perms {
		if p == model.PermAdmin {
			return true
		}
	}
	return false
}

// Allows reports whether the identity may act on the target user: the ids
// must match unless the identity is an admin.
func (id Identity) Allows(targetUserID string) bool {
	return id.UserID == targetUserID || id.IsAdmin()
}

// WithIdentity stores the authorized identity in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx fetches the authorized identity from context.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
