package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/models"
	"scaenahub/internal/store"
)

// Compile-time check
var _ SceneRepository = (*pgSceneRepository)(nil)

const sceneColumns = `id, script_id, scene_number, title, description, start_line_number, end_line_number, created_by, created_at, updated_at`

type pgSceneRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPgSceneRepository creates a SceneRepository over the durable store.
func NewPgSceneRepository(s store.Store, logger *zap.Logger) SceneRepository {
	return &pgSceneRepository{
		store:  s,
		logger: logger.Named("PgSceneRepo"),
	}
}

func (r *pgSceneRepository) Create(ctx context.Context, scene *models.ScriptScene) error {
	logFields := []zap.Field{
		zap.String("scriptID", scene.ScriptID.String()),
		zap.Int("sceneNumber", scene.SceneNumber),
	}
	r.logger.Debug("Creating scene", logFields...)

	err := r.store.Write(ctx, "script_scenes", store.OpInsert, scene.ID.String(), map[string]any{
		"id":                scene.ID,
		"script_id":         scene.ScriptID,
		"scene_number":      scene.SceneNumber,
		"title":             scene.Title,
		"description":       scene.Description,
		"start_line_number": scene.StartLineNumber,
		"end_line_number":   scene.EndLineNumber,
		"created_by":        scene.CreatedBy,
		"created_at":        scene.CreatedAt,
		"updated_at":        scene.UpdatedAt,
	})
	if err != nil {
		r.logger.Warn("Failed to create scene", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Scene created", logFields...)
	return nil
}

func (r *pgSceneRepository) MaxSceneNumber(ctx context.Context, scriptID uuid.UUID) (int, error) {
	var max int
	err := r.store.Get(ctx, &max, `SELECT COALESCE(MAX(scene_number), 0) FROM script_scenes WHERE script_id = $1`, scriptID)
	if err != nil {
		r.logger.Error("Failed to get max scene number", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to get max scene number: %w", err)
	}
	return max, nil
}

func (r *pgSceneRepository) ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptScene, error) {
	query := fmt.Sprintf(`SELECT %s FROM script_scenes WHERE script_id = $1 ORDER BY scene_number`, sceneColumns)
	scenes := []models.ScriptScene{}
	if err := r.store.Select(ctx, &scenes, query, scriptID); err != nil {
		r.logger.Error("Failed to list scenes", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	return scenes, nil
}
