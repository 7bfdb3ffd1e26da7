package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/repository"
)

// VersionService is the version and history recorder: explicit checkpoints
// of a script plus the append-only audit trail of its line mutations.
// Neither kind of record is ever mutated or deleted.
type VersionService interface {
	HistoryRecorder
	// CreateVersion appends an immutable checkpoint with the next version
	// number (max existing + 1, starting at 1) and a snapshot of the
	// script's current title and description.
	CreateVersion(ctx context.Context, scriptID uuid.UUID, changeDescription string, userID uuid.UUID, roles []string) (*models.ScriptVersion, error)
	GetVersions(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) ([]models.ScriptVersion, error)
	// GetLineHistory returns the audit trail newest-first, optionally
	// narrowed to one line number.
	GetLineHistory(ctx context.Context, scriptID uuid.UUID, lineNumber *int, userID uuid.UUID, roles []string) ([]models.ScriptLineHistory, error)
}

type versionServiceImpl struct {
	versionRepo repository.VersionRepository
	historyRepo repository.HistoryRepository
	scripts     ScriptLoader
	logger      *zap.Logger
	now         func() time.Time
}

// NewVersionService creates a VersionService. now is injected for tests;
// pass nil to use time.Now.
func NewVersionService(
	versionRepo repository.VersionRepository,
	historyRepo repository.HistoryRepository,
	scripts ScriptLoader,
	logger *zap.Logger,
	now func() time.Time,
) VersionService {
	return &versionServiceImpl{
		versionRepo: versionRepo,
		historyRepo: historyRepo,
		scripts:     scripts,
		logger:      logger.Named("VersionService"),
		now:         nowOrDefault(now),
	}
}

func (s *versionServiceImpl) CreateVersion(ctx context.Context, scriptID uuid.UUID, changeDescription string, userID uuid.UUID, roles []string) (*models.ScriptVersion, error) {
	if strings.TrimSpace(changeDescription) == "" {
		return nil, models.ValidationError("change description is required")
	}

	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(script, userID, roles) {
		return nil, models.PermissionError("script")
	}

	maxVersion, err := s.versionRepo.MaxVersion(ctx, scriptID)
	if err != nil {
		return nil, err
	}

	version := &models.ScriptVersion{
		ID:                uuid.New(),
		ScriptID:          scriptID,
		Version:           maxVersion + 1,
		Title:             script.Title,
		Description:       script.Description,
		ChangeDescription: changeDescription,
		CreatedBy:         userID,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.versionRepo.Create(ctx, version); err != nil {
		return nil, err
	}

	s.logger.Info("Script version created",
		zap.String("scriptID", scriptID.String()),
		zap.Int("version", version.Version),
		zap.String("createdBy", userID.String()),
	)
	return version, nil
}

func (s *versionServiceImpl) GetVersions(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) ([]models.ScriptVersion, error) {
	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanView(script, userID, roles) {
		return nil, models.NotFoundError("script")
	}
	return s.versionRepo.ListByScript(ctx, scriptID)
}

// RecordLineHistory appends one full-field snapshot of a line mutation. The
// line services call it after every create, update, and delete.
func (s *versionServiceImpl) RecordLineHistory(ctx context.Context, line *models.ScriptLine, changeType models.ChangeType, description string, editedBy uuid.UUID) error {
	entry := &models.ScriptLineHistory{
		ID:                uuid.New(),
		ScriptLineID:      line.ID,
		ScriptID:          line.ScriptID,
		LineNumber:        line.LineNumber,
		CharacterName:     line.CharacterName,
		Dialogue:          line.Dialogue,
		Lighting:          line.Lighting,
		AudioVideo:        line.AudioVideo,
		Notes:             line.Notes,
		Formatting:        line.Formatting,
		ChangeType:        changeType,
		ChangeDescription: description,
		EditedBy:          editedBy,
		EditedAt:          s.now().UTC(),
	}
	return s.historyRepo.Create(ctx, entry)
}

func (s *versionServiceImpl) GetLineHistory(ctx context.Context, scriptID uuid.UUID, lineNumber *int, userID uuid.UUID, roles []string) ([]models.ScriptLineHistory, error) {
	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanView(script, userID, roles) {
		return nil, models.NotFoundError("script")
	}
	return s.historyRepo.ListByScript(ctx, scriptID, lineNumber)
}
