package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/store"
)

// Compile-time check
var _ UserRepository = (*pgUserRepository)(nil)

const userColumns = `id, username, display_name, password_hash, roles, created_at, updated_at`

type pgUserRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPgUserRepository creates a UserRepository over the durable store.
func NewPgUserRepository(s store.Store, logger *zap.Logger) UserRepository {
	return &pgUserRepository{
		store:  s,
		logger: logger.Named("PgUserRepo"),
	}
}

func (r *pgUserRepository) Create(ctx context.Context, user *models.User) error {
	logFields := []zap.Field{zap.String("username", user.Username)}
	r.logger.Debug("Creating user", logFields...)

	err := r.store.Write(ctx, "users", store.OpInsert, user.ID.String(), map[string]any{
		"id":            user.ID,
		"username":      user.Username,
		"display_name":  user.DisplayName,
		"password_hash": user.PasswordHash,
		"roles":         user.Roles,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	})
	if err != nil {
		r.logger.Warn("Failed to create user", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("User created", logFields...)
	return nil
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	user := &models.User{}
	if err := r.store.Get(ctx, user, query, id); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	user := &models.User{}
	if err := r.store.Get(ctx, user, query, username); err != nil {
		return nil, err
	}
	return user, nil
}
