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

func TestCreateVersion(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	script := testScript(owner)
	script.Description = "current state"

	newSvc := func(versionRepo *mocks.VersionRepository) service.VersionService {
		loader := new(mockScriptLoader)
		loader.On("LoadScript", ctx, script.ID).Return(script, nil)
		return service.NewVersionService(versionRepo, new(mocks.HistoryRepository), loader, zap.NewNop(), fixedNow)
	}

	t.Run("First version is number one and snapshots the script", func(t *testing.T) {
		versionRepo := new(mocks.VersionRepository)
		versionRepo.On("MaxVersion", ctx, script.ID).Return(0, nil).Once()
		versionRepo.On("Create", ctx, mock.MatchedBy(func(v *models.ScriptVersion) bool {
			assert.Equal(t, 1, v.Version)
			assert.Equal(t, script.Title, v.Title)
			assert.Equal(t, "current state", v.Description)
			assert.Equal(t, owner, v.CreatedBy)
			return true
		})).Return(nil).Once()

		version, err := newSvc(versionRepo).CreateVersion(ctx, script.ID, "first checkpoint", owner, nil)
		assert.NoError(t, err)
		assert.Equal(t, 1, version.Version)
		versionRepo.AssertExpectations(t)
	})

	t.Run("Numbers continue from the maximum regardless of author", func(t *testing.T) {
		versionRepo := new(mocks.VersionRepository)
		versionRepo.On("MaxVersion", ctx, script.ID).Return(4, nil).Once()
		versionRepo.On("Create", ctx, mock.MatchedBy(func(v *models.ScriptVersion) bool {
			return v.Version == 5
		})).Return(nil).Once()

		other := uuid.New()
		version, err := newSvc(versionRepo).CreateVersion(ctx, script.ID, "another checkpoint", other, []string{models.RoleEditor})
		assert.NoError(t, err)
		assert.Equal(t, 5, version.Version)
	})

	t.Run("Blank change description is rejected", func(t *testing.T) {
		versionRepo := new(mocks.VersionRepository)
		_, err := newSvc(versionRepo).CreateVersion(ctx, script.ID, "   ", owner, nil)
		assert.ErrorIs(t, err, models.ErrValidation)
		versionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Viewer cannot checkpoint", func(t *testing.T) {
		versionRepo := new(mocks.VersionRepository)
		_, err := newSvc(versionRepo).CreateVersion(ctx, script.ID, "attempt", uuid.New(), []string{models.RoleViewer})
		assert.ErrorIs(t, err, models.ErrPermissionDenied)
	})
}

func TestRecordLineHistorySnapshotsAllFields(t *testing.T) {
	ctx := context.Background()
	editor := uuid.New()
	line := &models.ScriptLine{
		ID:            uuid.New(),
		ScriptID:      uuid.New(),
		LineNumber:    7,
		CharacterName: "OPHELIA",
		Dialogue:      "Good my lord",
		Lighting:      "dim blue wash",
		Notes:         "soft entrance",
		Formatting:    models.LineFormatting{Color: "#64B5F6"},
	}

	historyRepo := new(mocks.HistoryRepository)
	historyRepo.On("Create", ctx, mock.MatchedBy(func(e *models.ScriptLineHistory) bool {
		assert.Equal(t, line.ID, e.ScriptLineID)
		assert.Equal(t, line.ScriptID, e.ScriptID)
		assert.Equal(t, 7, e.LineNumber)
		assert.Equal(t, "OPHELIA", e.CharacterName)
		assert.Equal(t, "dim blue wash", e.Lighting)
		assert.Equal(t, models.ChangeTypeUpdate, e.ChangeType)
		assert.Equal(t, editor, e.EditedBy)
		assert.Equal(t, fixedTime, e.EditedAt)
		return true
	})).Return(nil).Once()

	svc := service.NewVersionService(new(mocks.VersionRepository), historyRepo, new(mockScriptLoader), zap.NewNop(), fixedNow)
	err := svc.RecordLineHistory(ctx, line, models.ChangeTypeUpdate, "", editor)
	assert.NoError(t, err)
	historyRepo.AssertExpectations(t)
}

func TestGetLineHistory(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	script := testScript(owner)

	historyRepo := new(mocks.HistoryRepository)
	loader := new(mockScriptLoader)
	loader.On("LoadScript", ctx, script.ID).Return(script, nil)
	svc := service.NewVersionService(new(mocks.VersionRepository), historyRepo, loader, zap.NewNop(), fixedNow)

	lineNumber := 2
	historyRepo.On("ListByScript", ctx, script.ID, &lineNumber).Return([]models.ScriptLineHistory{}, nil).Once()

	entries, err := svc.GetLineHistory(ctx, script.ID, &lineNumber, owner, nil)
	assert.NoError(t, err)
	assert.Empty(t, entries)

	t.Run("Hidden script answers NotFound", func(t *testing.T) {
		_, err := svc.GetLineHistory(ctx, script.ID, nil, uuid.New(), nil)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
