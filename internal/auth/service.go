package auth

import (
	"context"

	"github.com/google/uuid"

	"scaenahub/internal/models"
)

// Service issues, refreshes and revokes collaborator tokens.
type Service interface {
	// Register creates a collaborator account. New accounts start with the
	// viewer role; an admin promotes them afterwards.
	Register(ctx context.Context, username, displayName, password string) (*models.User, error)
	// Login verifies credentials and returns a fresh token pair.
	Login(ctx context.Context, username, password string) (*models.TokenDetails, error)
	// Refresh exchanges a valid, unrevoked refresh token for a new pair.
	Refresh(ctx context.Context, refreshToken string) (*models.TokenDetails, error)
	// Logout revokes the token pair identified by the access token's claims.
	Logout(ctx context.Context, accessUUID, refreshUUID string) error
	// LogoutAll revokes every token issued to the user, across devices.
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}
