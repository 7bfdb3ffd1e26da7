package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"scaenahub/internal/models"
)

// fixedNow freezes the clock for lock and session expiry arithmetic.
var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// mockScriptLoader stands in for the script service on components that only
// need script resolution.
type mockScriptLoader struct {
	mock.Mock
}

func (m *mockScriptLoader) LoadScript(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	args := m.Called(ctx, id)
	script, _ := args.Get(0).(*models.Script)
	return script, args.Error(1)
}

// mockRecorder stands in for the version service's history recorder.
type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordLineHistory(ctx context.Context, line *models.ScriptLine, changeType models.ChangeType, description string, editedBy uuid.UUID) error {
	args := m.Called(ctx, line, changeType, description, editedBy)
	return args.Error(0)
}

func testScript(owner uuid.UUID) *models.Script {
	return &models.Script{
		ID:        uuid.New(),
		Title:     "Act One",
		IsActive:  true,
		ViewRoles: []string{models.RoleViewer},
		EditRoles: []string{models.RoleEditor},
		ViewUsers: []uuid.UUID{},
		EditUsers: []uuid.UUID{},
		CreatedBy: owner,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}
