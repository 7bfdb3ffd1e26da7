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
var _ LockRepository = (*pgLockRepository)(nil)

const lockColumns = `id, script_id, line_number, locked_by, locked_at, expires_at`

type pgLockRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPgLockRepository creates a LockRepository over the durable store.
func NewPgLockRepository(s store.Store, logger *zap.Logger) LockRepository {
	return &pgLockRepository{
		store:  s,
		logger: logger.Named("PgLockRepo"),
	}
}

func (r *pgLockRepository) Create(ctx context.Context, lock *models.ScriptLock) error {
	logFields := []zap.Field{
		zap.String("scriptID", lock.ScriptID.String()),
		zap.String("lockedBy", lock.LockedBy.String()),
	}
	r.logger.Debug("Creating lock", logFields...)

	err := r.store.Write(ctx, "script_locks", store.OpInsert, lock.ID.String(), map[string]any{
		"id":          lock.ID,
		"script_id":   lock.ScriptID,
		"line_number": lock.LineNumber,
		"locked_by":   lock.LockedBy,
		"locked_at":   lock.LockedAt,
		"expires_at":  lock.ExpiresAt,
	})
	if err != nil {
		r.logger.Error("Failed to create lock", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create lock: %w", err)
	}
	r.logger.Info("Lock created", logFields...)
	return nil
}

func (r *pgLockRepository) ListUnexpired(ctx context.Context, scriptID uuid.UUID, now time.Time) ([]models.ScriptLock, error) {
	query := fmt.Sprintf(`SELECT %s FROM script_locks WHERE script_id = $1 AND expires_at > $2 ORDER BY locked_at`, lockColumns)
	locks := []models.ScriptLock{}
	if err := r.store.Select(ctx, &locks, query, scriptID, now); err != nil {
		r.logger.Error("Failed to list locks", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list locks: %w", err)
	}
	return locks, nil
}

func (r *pgLockRepository) ListConflicting(ctx context.Context, scriptID uuid.UUID, lineNumber *int, now time.Time) ([]models.ScriptLock, error) {
	// A request collides with an unexpired lock on the same line number or a
	// whole-script lock. A whole-script request only collides with other
	// whole-script locks.
	var query string
	var args []any
	if lineNumber != nil {
		query = fmt.Sprintf(`SELECT %s FROM script_locks
			WHERE script_id = $1 AND expires_at > $2 AND (line_number = $3 OR line_number IS NULL)`, lockColumns)
		args = []any{scriptID, now, *lineNumber}
	} else {
		query = fmt.Sprintf(`SELECT %s FROM script_locks
			WHERE script_id = $1 AND expires_at > $2 AND line_number IS NULL`, lockColumns)
		args = []any{scriptID, now}
	}

	locks := []models.ScriptLock{}
	if err := r.store.Select(ctx, &locks, query, args...); err != nil {
		r.logger.Error("Failed to query conflicting locks", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to query locks: %w", err)
	}
	return locks, nil
}

func (r *pgLockRepository) Release(ctx context.Context, scriptID uuid.UUID, lineNumber *int, userID uuid.UUID) (int64, error) {
	// The delete is scoped by the supplied owner id; there is no separate
	// ownership verification.
	var query string
	var args []any
	if lineNumber != nil {
		query = `DELETE FROM script_locks WHERE script_id = $1 AND locked_by = $2 AND line_number = $3`
		args = []any{scriptID, userID, *lineNumber}
	} else {
		query = `DELETE FROM script_locks WHERE script_id = $1 AND locked_by = $2 AND line_number IS NULL`
		args = []any{scriptID, userID}
	}

	removed, err := r.store.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to release lock", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to release lock: %w", err)
	}
	r.logger.Debug("Lock release executed",
		zap.String("scriptID", scriptID.String()),
		zap.String("userID", userID.String()),
		zap.Int64("removed", removed),
	)
	return removed, nil
}
