package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/repository/mocks"
	"scaenahub/internal/service"
)

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	script := testScript(owner)

	sessionRepo := new(mocks.SessionRepository)
	loader := new(mockScriptLoader)
	loader.On("LoadScript", ctx, script.ID).Return(script, nil)
	svc := service.NewSessionService(sessionRepo, loader, zap.NewNop(), fixedNow)

	t.Run("Editor starts a session", func(t *testing.T) {
		sessionRepo.On("Create", ctx, mock.MatchedBy(func(s *models.ScriptEditSession) bool {
			assert.Equal(t, owner, s.UserID)
			assert.Equal(t, "Ada", s.UserName)
			assert.True(t, s.IsActive)
			assert.Equal(t, fixedTime, s.StartedAt)
			assert.Equal(t, fixedTime, s.LastActivity)
			return true
		})).Return(nil).Once()

		session, err := svc.StartSession(ctx, script.ID, owner, "Ada", nil)
		assert.NoError(t, err)
		assert.Equal(t, script.ID, session.ScriptID)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("Viewer cannot start a session", func(t *testing.T) {
		_, err := svc.StartSession(ctx, script.ID, uuid.New(), "Eve", []string{models.RoleViewer})
		assert.ErrorIs(t, err, models.ErrPermissionDenied)
	})
}

func TestHeartbeatTouchesNow(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	sessionRepo := new(mocks.SessionRepository)
	svc := service.NewSessionService(sessionRepo, new(mockScriptLoader), zap.NewNop(), fixedNow)

	sessionRepo.On("Touch", ctx, sessionID, fixedTime).Return(nil).Once()
	assert.NoError(t, svc.Heartbeat(ctx, sessionID))
	sessionRepo.AssertExpectations(t)
}

func TestGetActiveSessionsUsesStalenessWindow(t *testing.T) {
	ctx := context.Background()
	scriptID := uuid.New()

	sessionRepo := new(mocks.SessionRepository)
	svc := service.NewSessionService(sessionRepo, new(mockScriptLoader), zap.NewNop(), fixedNow)

	cutoff := fixedTime.Add(-service.SessionStalenessWindow)
	sessionRepo.On("ListActive", ctx, scriptID, cutoff).Return([]models.ScriptEditSession{}, nil).Once()

	sessions, err := svc.GetActiveSessions(ctx, scriptID)
	assert.NoError(t, err)
	assert.Empty(t, sessions)
	sessionRepo.AssertExpectations(t)
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	sessionRepo := new(mocks.SessionRepository)
	svc := service.NewSessionService(sessionRepo, new(mockScriptLoader), zap.NewNop(), fixedNow)

	sessionRepo.On("End", ctx, sessionID).Return(nil).Once()
	assert.NoError(t, svc.EndSession(ctx, sessionID))
	sessionRepo.AssertExpectations(t)
}
