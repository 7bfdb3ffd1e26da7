package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/repository"
)

// PrintSettingsInput carries a full print-settings record. Saving appends a
// new record; retrieval always answers the most recent one (last write wins).
type PrintSettingsInput struct {
	PageSize          string
	Orientation       string
	FontSize          int
	MarginTop         int
	MarginBottom      int
	MarginLeft        int
	MarginRight       int
	IncludeCharacters bool
	IncludeLighting   bool
	IncludeAudioVideo bool
	IncludeNotes      bool
}

// PrintService manages print settings and assembles printable script data.
type PrintService interface {
	SavePrintSettings(ctx context.Context, scriptID uuid.UUID, input PrintSettingsInput, userID uuid.UUID, roles []string) (*models.ScriptPrintSettings, error)
	GetPrintSettings(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) (*models.ScriptPrintSettings, error)
	// GeneratePrintData is a read-only aggregate of the script, its lines
	// ordered by line number, its scenes, and the effective print settings.
	GeneratePrintData(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) (*models.PrintData, error)
}

type printServiceImpl struct {
	printRepo repository.PrintSettingsRepository
	lineRepo  repository.LineRepository
	sceneRepo repository.SceneRepository
	scripts   ScriptLoader
	logger    *zap.Logger
	now       func() time.Time
}

// NewPrintService creates a PrintService. now is injected for tests; pass
// nil to use time.Now.
func NewPrintService(
	printRepo repository.PrintSettingsRepository,
	lineRepo repository.LineRepository,
	sceneRepo repository.SceneRepository,
	scripts ScriptLoader,
	logger *zap.Logger,
	now func() time.Time,
) PrintService {
	return &printServiceImpl{
		printRepo: printRepo,
		lineRepo:  lineRepo,
		sceneRepo: sceneRepo,
		scripts:   scripts,
		logger:    logger.Named("PrintService"),
		now:       nowOrDefault(now),
	}
}

func (s *printServiceImpl) SavePrintSettings(ctx context.Context, scriptID uuid.UUID, input PrintSettingsInput, userID uuid.UUID, roles []string) (*models.ScriptPrintSettings, error) {
	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(script, userID, roles) {
		return nil, models.PermissionError("script")
	}

	settings := &models.ScriptPrintSettings{
		ID:                uuid.New(),
		ScriptID:          scriptID,
		PageSize:          input.PageSize,
		Orientation:       input.Orientation,
		FontSize:          input.FontSize,
		MarginTop:         input.MarginTop,
		MarginBottom:      input.MarginBottom,
		MarginLeft:        input.MarginLeft,
		MarginRight:       input.MarginRight,
		IncludeCharacters: input.IncludeCharacters,
		IncludeLighting:   input.IncludeLighting,
		IncludeAudioVideo: input.IncludeAudioVideo,
		IncludeNotes:      input.IncludeNotes,
		CreatedBy:         userID,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.printRepo.Create(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("Print settings saved", zap.String("scriptID", scriptID.String()))
	return settings, nil
}

func (s *printServiceImpl) GetPrintSettings(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) (*models.ScriptPrintSettings, error) {
	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanView(script, userID, roles) {
		return nil, models.NotFoundError("script")
	}
	return s.effectiveSettings(ctx, scriptID)
}

func (s *printServiceImpl) GeneratePrintData(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) (*models.PrintData, error) {
	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanView(script, userID, roles) {
		return nil, models.NotFoundError("script")
	}

	lines, err := s.lineRepo.ListByScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	scenes, err := s.sceneRepo.ListByScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	settings, err := s.effectiveSettings(ctx, scriptID)
	if err != nil {
		return nil, err
	}

	return &models.PrintData{
		Script:   script,
		Lines:    lines,
		Scenes:   scenes,
		Settings: settings,
	}, nil
}

// effectiveSettings returns the latest saved record, or the defaults when
// the script never had settings saved.
func (s *printServiceImpl) effectiveSettings(ctx context.Context, scriptID uuid.UUID) (*models.ScriptPrintSettings, error) {
	settings, err := s.printRepo.GetLatest(ctx, scriptID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.DefaultPrintSettings(scriptID), nil
		}
		return nil, err
	}
	return settings, nil
}
