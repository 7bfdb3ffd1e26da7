package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/store"
)

// Compile-time check
var _ SessionRepository = (*pgSessionRepository)(nil)

const sessionColumns = `id, script_id, user_id, user_name, started_at, last_activity, is_active`

type pgSessionRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPgSessionRepository creates a SessionRepository over the durable store.
func NewPgSessionRepository(s store.Store, logger *zap.Logger) SessionRepository {
	return &pgSessionRepository{
		store:  s,
		logger: logger.Named("PgSessionRepo"),
	}
}

func (r *pgSessionRepository) Create(ctx context.Context, session *models.ScriptEditSession) error {
	logFields := []zap.Field{
		zap.String("sessionID", session.ID.String()),
		zap.String("scriptID", session.ScriptID.String()),
	}
	r.logger.Debug("Creating edit session", logFields...)

	err := r.store.Write(ctx, "script_edit_sessions", store.OpInsert, session.ID.String(), map[string]any{
		"id":            session.ID,
		"script_id":     session.ScriptID,
		"user_id":       session.UserID,
		"user_name":     session.UserName,
		"started_at":    session.StartedAt,
		"last_activity": session.LastActivity,
		"is_active":     session.IsActive,
	})
	if err != nil {
		r.logger.Error("Failed to create edit session", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create edit session: %w", err)
	}
	r.logger.Info("Edit session created", logFields...)
	return nil
}

func (r *pgSessionRepository) Touch(ctx context.Context, sessionID uuid.UUID, now time.Time) error {
	err := r.store.Write(ctx, "script_edit_sessions", store.OpUpdate, sessionID.String(), map[string]any{
		"last_activity": now,
	})
	if err != nil {
		r.logger.Warn("Failed to touch edit session", zap.String("sessionID", sessionID.String()), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgSessionRepository) End(ctx context.Context, sessionID uuid.UUID) error {
	err := r.store.Write(ctx, "script_edit_sessions", store.OpUpdate, sessionID.String(), map[string]any{
		"is_active": false,
	})
	if err != nil {
		r.logger.Warn("Failed to end edit session", zap.String("sessionID", sessionID.String()), zap.Error(err))
		return err
	}
	r.logger.Info("Edit session ended", zap.String("sessionID", sessionID.String()))
	return nil
}

func (r *pgSessionRepository) ListActive(ctx context.Context, scriptID uuid.UUID, cutoff time.Time) ([]models.ScriptEditSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM script_edit_sessions
		WHERE script_id = $1 AND is_active = TRUE AND last_activity > $2
		ORDER BY started_at`, sessionColumns)
	sessions := []models.ScriptEditSession{}
	if err := r.store.Select(ctx, &sessions, query, scriptID, cutoff); err != nil {
		r.logger.Error("Failed to list active sessions", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	return sessions, nil
}
