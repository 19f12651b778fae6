package model

import "strings"

// Permission is one capability from the fixed vocabulary granted to a
// session token through its perms claim.
type Permission string

// Canonical capability vocabulary. PermAdmin satisfies any requirement;
// every other permission satisfies only exact membership.
const (
	PermProfileOnly Permission = "profile-only"
	PermFullAccess  Permission = "full-access"
	PermActivities  Permission = "activities"
	PermEvents      Permission = "events"
	PermFriends     Permission = "friends"
	PermAdmin       Permission = "admin"
)

// DefaultGrant is the permission set issued to a session token at login.
var DefaultGrant = []Permission{
	PermProfileOnly, PermFullAccess, PermActivities, PermEvents, PermFriends,
}

// ParsePermissions splits a comma-delimited perms claim into individual
// permissions. Matching elsewhere is exact per token, never substring, so
// "events" inside a longer name does not count.
func ParsePermissions(perms string) []Permission {
	parts := strings.Split(perms, ",")
	out := make([]Permission, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, Permission(p))
	}
	return out
}

// JoinPermissions renders a permission set as a comma-delimited perms claim.
func JoinPermissions(perms []Permission) string {
	parts := make([]string, 0, len(perms))
	for _, p := range perms {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ",")
}

// HasAnyPermission reports whether the granted set satisfies the required
// set: admin satisfies everything, otherwise any single exact match is
// enough.
func HasAnyPermission(granted, required []Permission) bool {
	for _, g := range granted {
		if g == PermAdmin {
			return true
		}
	}
	for _, g := range granted {
		for _, r := range required {
			if g == r {
				return true
			}
		}
	}
	return false
}
