package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/repository"
)

// SessionStalenessWindow bounds how long a silent session still counts as
// present. Liveness is computed at read time; the stored isActive flag is
// never reconciled against the window.
const SessionStalenessWindow = 5 * time.Minute

// SessionService tracks who is actively editing a script.
type SessionService interface {
	StartSession(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, userName string, roles []string) (*models.ScriptEditSession, error)
	// Heartbeat moves lastActivity to now. The session's owner is not
	// re-verified here.
	Heartbeat(ctx context.Context, sessionID uuid.UUID) error
	// EndSession marks the session inactive.
	EndSession(ctx context.Context, sessionID uuid.UUID) error
	// GetActiveSessions is the single source of truth for presence: sessions
	// active in storage AND heard from within the staleness window. It takes
	// no caller identity; presence is public.
	GetActiveSessions(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptEditSession, error)
}

type sessionServiceImpl struct {
	sessionRepo repository.SessionRepository
	scripts     ScriptLoader
	logger      *zap.Logger
	now         func() time.Time
}

// NewSessionService creates a SessionService. now is injected for tests;
// pass nil to use time.Now.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	scripts ScriptLoader,
	logger *zap.Logger,
	now func() time.Time,
) SessionService {
	return &sessionServiceImpl{
		sessionRepo: sessionRepo,
		scripts:     scripts,
		logger:      logger.Named("SessionService"),
		now:         nowOrDefault(now),
	}
}

func (s *sessionServiceImpl) StartSession(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, userName string, roles []string) (*models.ScriptEditSession, error) {
	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(script, userID, roles) {
		return nil, models.PermissionError("script")
	}

	now := s.now().UTC()
	session := &models.ScriptEditSession{
		ID:           uuid.New(),
		ScriptID:     scriptID,
		UserID:       userID,
		UserName:     userName,
		StartedAt:    now,
		LastActivity: now,
		IsActive:     true,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Edit session started",
		zap.String("sessionID", session.ID.String()),
		zap.String("scriptID", scriptID.String()),
		zap.String("userID", userID.String()),
	)
	return session, nil
}

func (s *sessionServiceImpl) Heartbeat(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessionRepo.Touch(ctx, sessionID, s.now().UTC())
}

func (s *sessionServiceImpl) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessionRepo.End(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("Edit session ended", zap.String("sessionID", sessionID.String()))
	return nil
}

func (s *sessionServiceImpl) GetActiveSessions(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptEditSession, error) {
	cutoff := s.now().UTC().Add(-SessionStalenessWindow)
	return s.sessionRepo.ListActive(ctx, scriptID, cutoff)
}
