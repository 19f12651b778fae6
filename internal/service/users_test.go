package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamenight/users-service/internal/errs"
	"github.com/gamenight/users-service/internal/model"
)

func TestUserService_Get(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{"1": {ID: "1"}}}
	svc := NewUserService(users)

	u, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "1", u.ID)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserService_List_Empty(t *testing.T) {
	svc := NewUserService(&fakeUsers{})

	_, err := svc.List(context.Background(), 5, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	users := &fakeUsers{byID: map[string]*model.User{"1": {ID: "1"}}, updateOK: true}
	svc := NewUserService(users)

	name := "Alice"
	require.NoError(t, svc.UpdateProfile(context.Background(), model.User{ID: "1", Name: &name}))
	require.Equal(t, "Alice", *users.byID["1"].Name)

	users.updateOK = false
	err := svc.UpdateProfile(context.Background(), model.User{ID: "missing"})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserService_ReplaceFavorites(t *testing.T) {
	users := &fakeUsers{replaceOK: true}
	svc := NewUserService(users)

	require.NoError(t, svc.ReplaceFavorites(context.Background(), "1", []int64{7, 8, 9}))
	require.Equal(t, []int64{7, 8, 9}, users.lastFavorites)

	users.replaceOK = false
	err := svc.ReplaceFavorites(context.Background(), "missing", []int64{7})
	require.ErrorIs(t, err, errs.ErrNotFound)
}
