package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"scaenahub/internal/cache"
	"scaenahub/internal/models"
	"scaenahub/internal/repository/mocks"
	"scaenahub/internal/service"
)

type lineFixture struct {
	lineRepo *mocks.LineRepository
	loader   *mockScriptLoader
	recorder *mockRecorder
	cache    *cache.ScriptCache
	svc      service.LineService
}

func newLineFixture() *lineFixture {
	f := &lineFixture{
		lineRepo: new(mocks.LineRepository),
		loader:   new(mockScriptLoader),
		recorder: new(mockRecorder),
		cache:    cache.NewScriptCache(fixedNow),
	}
	f.svc = service.NewLineService(f.lineRepo, f.loader, f.cache, f.recorder, zap.NewNop(), fixedNow)
	return f
}

func TestCreateLine(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	script := testScript(owner)

	t.Run("Creates line and records one history entry", func(t *testing.T) {
		f := newLineFixture()
		f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)
		f.lineRepo.On("ListByScript", ctx, script.ID).Return([]models.ScriptLine{}, nil).Once()
		f.lineRepo.On("Create", ctx, mock.MatchedBy(func(l *models.ScriptLine) bool {
			assert.Equal(t, 1, l.LineNumber)
			assert.Equal(t, "HAMLET", l.CharacterName)
			assert.Equal(t, owner, l.LastEditedBy)
			assert.NotEmpty(t, l.Formatting.Color)
			return true
		})).Return(nil).Once()
		f.recorder.On("RecordLineHistory", ctx, mock.Anything, models.ChangeTypeCreate, "", owner).Return(nil).Once()

		line, err := f.svc.CreateLine(ctx, script.ID, service.CreateLineInput{
			LineNumber:    1,
			CharacterName: "HAMLET",
			Dialogue:      "To be, or not to be",
		}, owner, nil)
		assert.NoError(t, err)
		assert.Equal(t, 1, line.LineNumber)
		f.lineRepo.AssertExpectations(t)
		f.recorder.AssertExpectations(t)
	})

	t.Run("Duplicate line number answers Conflict", func(t *testing.T) {
		f := newLineFixture()
		existing := models.ScriptLine{ID: uuid.New(), ScriptID: script.ID, LineNumber: 1}
		f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)
		f.lineRepo.On("ListByScript", ctx, script.ID).Return([]models.ScriptLine{existing}, nil).Once()

		_, err := f.svc.CreateLine(ctx, script.ID, service.CreateLineInput{LineNumber: 1}, owner, nil)
		assert.ErrorIs(t, err, models.ErrConflict)
		f.lineRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.recorder.AssertNotCalled(t, "RecordLineHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Lost store race answers Conflict", func(t *testing.T) {
		f := newLineFixture()
		f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)
		f.lineRepo.On("ListByScript", ctx, script.ID).Return([]models.ScriptLine{}, nil).Once()
		f.lineRepo.On("Create", ctx, mock.Anything).Return(models.ConflictError("script line", "duplicate key")).Once()

		_, err := f.svc.CreateLine(ctx, script.ID, service.CreateLineInput{LineNumber: 1}, owner, nil)
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("Viewer cannot create", func(t *testing.T) {
		f := newLineFixture()
		f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)

		_, err := f.svc.CreateLine(ctx, script.ID, service.CreateLineInput{LineNumber: 1}, uuid.New(), []string{models.RoleViewer})
		assert.ErrorIs(t, err, models.ErrPermissionDenied)
	})
}

func TestUpdateLine(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	script := testScript(owner)
	existing := models.ScriptLine{
		ID:         uuid.New(),
		ScriptID:   script.ID,
		LineNumber: 3,
		Dialogue:   "original line",
		Notes:      "keep me",
		Formatting: models.LineFormatting{Color: "#E57373"},
	}

	t.Run("Partial update keeps untouched fields and re-derives color", func(t *testing.T) {
		f := newLineFixture()
		f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)
		f.lineRepo.On("ListByScript", ctx, script.ID).Return([]models.ScriptLine{existing}, nil).Once()
		f.lineRepo.On("Update", ctx, mock.MatchedBy(func(l *models.ScriptLine) bool {
			assert.Equal(t, "rewritten line", l.Dialogue)
			assert.Equal(t, "keep me", l.Notes)
			assert.Equal(t, owner, l.LastEditedBy)
			return true
		})).Return(nil).Once()
		f.recorder.On("RecordLineHistory", ctx, mock.Anything, models.ChangeTypeUpdate, "", owner).Return(nil).Once()

		dialogue := "rewritten line"
		updated, err := f.svc.UpdateLine(ctx, script.ID, 3, service.UpdateLineInput{Dialogue: &dialogue}, owner, nil)
		assert.NoError(t, err)
		assert.Equal(t, "keep me", updated.Notes)
		f.recorder.AssertExpectations(t)
	})

	t.Run("Missing line answers NotFound", func(t *testing.T) {
		f := newLineFixture()
		f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)
		f.lineRepo.On("ListByScript", ctx, script.ID).Return([]models.ScriptLine{}, nil).Once()
		f.lineRepo.On("GetByNumber", ctx, script.ID, 9).Return(nil, models.ErrNotFound).Once()

		dialogue := "x"
		_, err := f.svc.UpdateLine(ctx, script.ID, 9, service.UpdateLineInput{Dialogue: &dialogue}, owner, nil)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDeleteLineSnapshotsHistory(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	script := testScript(owner)
	existing := models.ScriptLine{
		ID:         uuid.New(),
		ScriptID:   script.ID,
		LineNumber: 2,
		Dialogue:   "final words",
	}

	f := newLineFixture()
	f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)
	f.lineRepo.On("ListByScript", ctx, script.ID).Return([]models.ScriptLine{existing}, nil).Once()
	f.lineRepo.On("Delete", ctx, existing.ID).Return(nil).Once()
	f.recorder.On("RecordLineHistory", ctx, mock.MatchedBy(func(l *models.ScriptLine) bool {
		// The delete entry snapshots the last state of the line.
		assert.Equal(t, "final words", l.Dialogue)
		return true
	}), models.ChangeTypeDelete, "", owner).Return(nil).Once()

	err := f.svc.DeleteLine(ctx, script.ID, 2, owner, nil)
	assert.NoError(t, err)

	_, cached := f.cache.GetLine(script.ID, 2)
	assert.False(t, cached)
	f.recorder.AssertExpectations(t)
}

func TestColorForDialogueIsStable(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	script := testScript(owner)

	colors := make(map[int]string)
	for _, n := range []int{1, 2} {
		f := newLineFixture()
		f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)
		f.lineRepo.On("ListByScript", ctx, script.ID).Return([]models.ScriptLine{}, nil).Once()
		f.lineRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.recorder.On("RecordLineHistory", ctx, mock.Anything, models.ChangeTypeCreate, "", owner).Return(nil).Once()

		line, err := f.svc.CreateLine(ctx, script.ID, service.CreateLineInput{
			LineNumber: n,
			Dialogue:   "the same words",
		}, owner, nil)
		assert.NoError(t, err)
		colors[n] = line.Formatting.Color
	}
	assert.Equal(t, colors[1], colors[2], "identical dialogue renders the same color")

	t.Run("Empty dialogue gets the default color", func(t *testing.T) {
		f := newLineFixture()
		f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)
		f.lineRepo.On("ListByScript", ctx, script.ID).Return([]models.ScriptLine{}, nil).Once()
		f.lineRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.recorder.On("RecordLineHistory", ctx, mock.Anything, models.ChangeTypeCreate, "", owner).Return(nil).Once()

		line, err := f.svc.CreateLine(ctx, script.ID, service.CreateLineInput{LineNumber: 1}, owner, nil)
		assert.NoError(t, err)
		assert.Equal(t, "#9E9E9E", line.Formatting.Color)
	})
}

func TestGetLinesOrdered(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	script := testScript(owner)

	f := newLineFixture()
	f.loader.On("LoadScript", ctx, script.ID).Return(script, nil)
	f.lineRepo.On("ListByScript", ctx, script.ID).Return([]models.ScriptLine{
		{ID: uuid.New(), ScriptID: script.ID, LineNumber: 5},
		{ID: uuid.New(), ScriptID: script.ID, LineNumber: 1},
		{ID: uuid.New(), ScriptID: script.ID, LineNumber: 3},
	}, nil).Once()

	lines, err := f.svc.GetLines(ctx, script.ID, owner, nil)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, []int{lines[0].LineNumber, lines[1].LineNumber, lines[2].LineNumber})

	// Second read is served from the cache.
	again, err := f.svc.GetLines(ctx, script.ID, owner, nil)
	assert.NoError(t, err)
	assert.Len(t, again, 3)
	f.lineRepo.AssertNumberOfCalls(t, "ListByScript", 1)
}
