package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/repository"
)

// CreateSceneInput carries the caller-supplied fields of a new scene.
type CreateSceneInput struct {
	Title           string
	Description     string
	StartLineNumber int
	EndLineNumber   int
}

// SceneService manages a script's scenes. Scene boundaries are taken as
// given: start and end line numbers are not checked against existing lines,
// so a scene may span lines created later or deleted since.
type SceneService interface {
	CreateScene(ctx context.Context, scriptID uuid.UUID, input CreateSceneInput, userID uuid.UUID, roles []string) (*models.ScriptScene, error)
	GetScenes(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) ([]models.ScriptScene, error)
}

type sceneServiceImpl struct {
	sceneRepo repository.SceneRepository
	scripts   ScriptLoader
	logger    *zap.Logger
	now       func() time.Time
}

// NewSceneService creates a SceneService. now is injected for tests; pass
// nil to use time.Now.
func NewSceneService(
	sceneRepo repository.SceneRepository,
	scripts ScriptLoader,
	logger *zap.Logger,
	now func() time.Time,
) SceneService {
	return &sceneServiceImpl{
		sceneRepo: sceneRepo,
		scripts:   scripts,
		logger:    logger.Named("SceneService"),
		now:       nowOrDefault(now),
	}
}

func (s *sceneServiceImpl) CreateScene(ctx context.Context, scriptID uuid.UUID, input CreateSceneInput, userID uuid.UUID, roles []string) (*models.ScriptScene, error) {
	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(script, userID, roles) {
		return nil, models.PermissionError("script")
	}

	maxNumber, err := s.sceneRepo.MaxSceneNumber(ctx, scriptID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	scene := &models.ScriptScene{
		ID:              uuid.New(),
		ScriptID:        scriptID,
		SceneNumber:     maxNumber + 1,
		Title:           input.Title,
		Description:     input.Description,
		StartLineNumber: input.StartLineNumber,
		EndLineNumber:   input.EndLineNumber,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.sceneRepo.Create(ctx, scene); err != nil {
		return nil, err
	}

	s.logger.Info("Scene created",
		zap.String("scriptID", scriptID.String()),
		zap.Int("sceneNumber", scene.SceneNumber),
	)
	return scene, nil
}

func (s *sceneServiceImpl) GetScenes(ctx context.Context, scriptID uuid.UUID, userID uuid.UUID, roles []string) ([]models.ScriptScene, error) {
	script, err := s.scripts.LoadScript(ctx, scriptID)
	if err != nil {
		return nil, err
	}
	if !CanView(script, userID, roles) {
		return nil, models.NotFoundError("script")
	}
	return s.sceneRepo.ListByScript(ctx, scriptID)
}
