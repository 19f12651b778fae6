// Package model defines domain entities used by services and repositories.
package model

import "time"

// User is a profile record served by the users microservice. ID is an opaque
// identifier assigned by the external identity provider and is immutable once
// persisted. Every other field may be absent: a freshly registered account is
// a stub user carrying only its ID.
type User struct {
	ID                 string     `json:"id"`
	Name               *string    `json:"name"`
	Location           *string    `json:"location"`
	PhotoURL           *string    `json:"photo_url"`
	FavoriteActivities []int64    `json:"favorite_activities"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

// UserRow is one denormalized tuple from the users-to-favorites left join.
// A user with zero favorites produces exactly one row with nil ActivityID;
// a user with N favorites produces N rows sharing identical scalar fields.
type UserRow struct {
	ID         string
	Name       *string
	Location   *string
	PhotoURL   *string
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
	ActivityID *int64
}
