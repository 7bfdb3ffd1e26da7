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
var _ LineRepository = (*pgLineRepository)(nil)

const lineColumns = `id, script_id, line_number, character_name, dialogue, lighting, audio_video, notes, formatting, last_edited_by, created_at, updated_at`

type pgLineRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPgLineRepository creates a LineRepository over the durable store.
func NewPgLineRepository(s store.Store, logger *zap.Logger) LineRepository {
	return &pgLineRepository{
		store:  s,
		logger: logger.Named("PgLineRepo"),
	}
}

func (r *pgLineRepository) Create(ctx context.Context, line *models.ScriptLine) error {
	logFields := []zap.Field{
		zap.String("scriptID", line.ScriptID.String()),
		zap.Int("lineNumber", line.LineNumber),
	}
	r.logger.Debug("Creating script line", logFields...)

	// The unique (script_id, line_number) constraint turns a competing
	// create of the same number into a Conflict instead of an overwrite.
	err := r.store.Write(ctx, "script_lines", store.OpInsert, line.ID.String(), map[string]any{
		"id":             line.ID,
		"script_id":      line.ScriptID,
		"line_number":    line.LineNumber,
		"character_name": line.CharacterName,
		"dialogue":       line.Dialogue,
		"lighting":       line.Lighting,
		"audio_video":    line.AudioVideo,
		"notes":          line.Notes,
		"formatting":     line.Formatting,
		"last_edited_by": line.LastEditedBy,
		"created_at":     line.CreatedAt,
		"updated_at":     line.UpdatedAt,
	})
	if err != nil {
		r.logger.Warn("Failed to create script line", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Script line created", logFields...)
	return nil
}

func (r *pgLineRepository) ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptLine, error) {
	query := fmt.Sprintf(`SELECT %s FROM script_lines WHERE script_id = $1 ORDER BY line_number`, lineColumns)
	lines := []models.ScriptLine{}
	if err := r.store.Select(ctx, &lines, query, scriptID); err != nil {
		r.logger.Error("Failed to list script lines", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list script lines: %w", err)
	}
	return lines, nil
}

func (r *pgLineRepository) GetByNumber(ctx context.Context, scriptID uuid.UUID, lineNumber int) (*models.ScriptLine, error) {
	query := fmt.Sprintf(`SELECT %s FROM script_lines WHERE script_id = $1 AND line_number = $2`, lineColumns)
	line := &models.ScriptLine{}
	if err := r.store.Get(ctx, line, query, scriptID, lineNumber); err != nil {
		return nil, err
	}
	return line, nil
}

// Update never touches line_number: it is immutable once assigned.
func (r *pgLineRepository) Update(ctx context.Context, line *models.ScriptLine) error {
	logFields := []zap.Field{
		zap.String("lineID", line.ID.String()),
		zap.Int("lineNumber", line.LineNumber),
	}
	r.logger.Debug("Updating script line", logFields...)

	err := r.store.Write(ctx, "script_lines", store.OpUpdate, line.ID.String(), map[string]any{
		"character_name": line.CharacterName,
		"dialogue":       line.Dialogue,
		"lighting":       line.Lighting,
		"audio_video":    line.AudioVideo,
		"notes":          line.Notes,
		"formatting":     line.Formatting,
		"last_edited_by": line.LastEditedBy,
		"updated_at":     line.UpdatedAt,
	})
	if err != nil {
		r.logger.Warn("Failed to update script line", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Script line updated", logFields...)
	return nil
}

func (r *pgLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	logFields := []zap.Field{zap.String("lineID", id.String())}
	if err := r.store.Write(ctx, "script_lines", store.OpDelete, id.String(), nil); err != nil {
		r.logger.Warn("Failed to delete script line", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Script line deleted", logFields...)
	return nil
}
