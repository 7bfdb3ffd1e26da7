package models

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is private to avoid collisions with other packages' keys.
type contextKey string

const (
	// UserContextKey stores the caller's uuid.UUID in the request context.
	UserContextKey contextKey = "userID"
	// UserNameContextKey stores the caller's display name.
	UserNameContextKey contextKey = "userName"
	// RolesContextKey stores the caller's []string roles.
	RolesContextKey contextKey = "userRoles"
)

// GetUserIDFromContext extracts the caller's ID from the context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserContextKey).(uuid.UUID)
	return userID, ok
}

// GetUserNameFromContext extracts the caller's display name from the context.
func GetUserNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(UserNameContextKey).(string)
	return name, ok
}

// GetRolesFromContext extracts the caller's roles from the context.
func GetRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(RolesContextKey).([]string)
	return roles, ok
}
