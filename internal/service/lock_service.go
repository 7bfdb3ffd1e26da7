package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/repository"
)

// DefaultLockMinutes is the lock duration used when a client does not ask
// for one. The boundary layer clamps requested durations to 1–120 minutes.
const DefaultLockMinutes = 30

// LockService grants and revokes time-boxed advisory locks on a script or a
// single line. Locks are a coordination hint for clients: nothing on the
// line-mutation path consults them. Expiry is query-time only; expired rows
// linger in storage but are invisible to every operation here.
type LockService interface {
	// AcquireLock locks (scriptID, lineNumber); lineNumber nil means the
	// whole script. An unexpired lock held by another user answers Conflict.
	// The owner may re-acquire: a fresh lock row is inserted, durations are
	// not merged with the previous one.
	AcquireLock(ctx context.Context, scriptID uuid.UUID, lineNumber *int, durationMinutes int, userID uuid.UUID, roles []string) (*models.ScriptLock, error)
	// ReleaseLock deletes lock rows matching (scriptID, lineNumber) scoped
	// by the supplied owner id. No ownership or expiry verification beyond
	// that filter.
	ReleaseLock(ctx context.Context, scriptID uuid.UUID, lineNumber *int, userID uuid.UUID) error
	// GetLocks lists the script's unexpired locks.
	GetLocks(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) ([]models.ScriptLock, error)
}

type lockServiceImpl struct {
	lockRepo repository.LockRepository
	scripts  ScriptLoader
	logger   *zap.Logger
	now      func() time.Time
}

// NewLockService creates a LockService. now is injected for tests; pass nil
// to use time.Now.
func NewLockService(
	lockRepo repository.LockRepository,
	scripts ScriptLoader,
	logger *zap.Logger,
	now func() time.Time,
) LockService {
	return &lockServiceImpl{
		lockRepo: lockRepo,
		scripts:  scripts,
		logger:   logger.Named("LockService"),
		now:      nowOrDefault(now),
	}
}

func (s *lockServiceImpl) AcquireLock(ctx context.Context, scriptID uuid.UUID, lineNumber *int, durationMinutes int, userID uuid.UUID, roles []string) (*models.ScriptLock, error) {
	logFields := []zap.Field{
		zap.String("scriptID", scriptID.String()),
		zap.String("userID", userID.String()),
	}
	if lineNumber != nil {
		logFields = append(logFields, zap.Int("lineNumber", *lineNumber))
	}

	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(script, userID, roles) {
		return nil, models.PermissionError("script")
	}

	if durationMinutes <= 0 {
		durationMinutes = DefaultLockMinutes
	}

	now := s.now().UTC()
	conflicting, err := s.lockRepo.ListConflicting(ctx, scriptID, lineNumber, now)
	if err != nil {
		return nil, err
	}
	for i := range conflicting {
		if conflicting[i].LockedBy != userID {
			s.logger.Warn("Lock already held by another user",
				append(logFields, zap.String("heldBy", conflicting[i].LockedBy.String()))...)
			return nil, models.ConflictError("script lock", "already locked")
		}
	}

	lock := &models.ScriptLock{
		ID:         uuid.New(),
		ScriptID:   scriptID,
		LineNumber: lineNumber,
		LockedBy:   userID,
		LockedAt:   now,
		ExpiresAt:  now.Add(time.Duration(durationMinutes) * time.Minute),
	}
	if err := s.lockRepo.Create(ctx, lock); err != nil {
		return nil, err
	}

	s.logger.Info("Lock acquired", append(logFields, zap.Time("expiresAt", lock.ExpiresAt))...)
	return lock, nil
}

func (s *lockServiceImpl) ReleaseLock(ctx context.Context, scriptID uuid.UUID, lineNumber *int, userID uuid.UUID) error {
	removed, err := s.lockRepo.Release(ctx, scriptID, lineNumber, userID)
	if err != nil {
		return err
	}
	s.logger.Info("Lock released",
		zap.String("scriptID", scriptID.String()),
		zap.String("userID", userID.String()),
		zap.Int64("removed", removed),
	)
	return nil
}

func (s *lockServiceImpl) GetLocks(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) ([]models.ScriptLock, error) {
	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanView(script, userID, roles) {
		return nil, models.NotFoundError("script")
	}
	return s.lockRepo.ListUnexpired(ctx, scriptID, s.now().UTC())
}
