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
var _ HistoryRepository = (*pgHistoryRepository)(nil)

const historyColumns = `id, script_line_id, script_id, line_number, character_name, dialogue, lighting, audio_video, notes, formatting, change_type, change_description, edited_by, edited_at`

type pgHistoryRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPgHistoryRepository creates a HistoryRepository over the durable store.
// History is append-only: no update or delete path exists.
func NewPgHistoryRepository(s store.Store, logger *zap.Logger) HistoryRepository {
	return &pgHistoryRepository{
		store:  s,
		logger: logger.Named("PgHistoryRepo"),
	}
}

func (r *pgHistoryRepository) Create(ctx context.Context, entry *models.ScriptLineHistory) error {
	logFields := []zap.Field{
		zap.String("scriptID", entry.ScriptID.String()),
		zap.Int("lineNumber", entry.LineNumber),
		zap.String("changeType", string(entry.ChangeType)),
	}
	r.logger.Debug("Appending line history", logFields...)

	err := r.store.Write(ctx, "script_line_history", store.OpInsert, entry.ID.String(), map[string]any{
		"id":                 entry.ID,
		"script_line_id":     entry.ScriptLineID,
		"script_id":          entry.ScriptID,
		"line_number":        entry.LineNumber,
		"character_name":     entry.CharacterName,
		"dialogue":           entry.Dialogue,
		"lighting":           entry.Lighting,
		"audio_video":        entry.AudioVideo,
		"notes":              entry.Notes,
		"formatting":         entry.Formatting,
		"change_type":        entry.ChangeType,
		"change_description": entry.ChangeDescription,
		"edited_by":          entry.EditedBy,
		"edited_at":          entry.EditedAt,
	})
	if err != nil {
		r.logger.Error("Failed to append line history", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to append line history: %w", err)
	}
	return nil
}

func (r *pgHistoryRepository) ListByScript(ctx context.Context, scriptID uuid.UUID, lineNumber *int) ([]models.ScriptLineHistory, error) {
	var query string
	var args []any
	if lineNumber != nil {
		query = fmt.Sprintf(`SELECT %s FROM script_line_history
			WHERE script_id = $1 AND line_number = $2 ORDER BY edited_at DESC`, historyColumns)
		args = []any{scriptID, *lineNumber}
	} else {
		query = fmt.Sprintf(`SELECT %s FROM script_line_history
			WHERE script_id = $1 ORDER BY edited_at DESC`, historyColumns)
		args = []any{scriptID}
	}

	entries := []models.ScriptLineHistory{}
	if err := r.store.Select(ctx, &entries, query, args...); err != nil {
		r.logger.Error("Failed to list line history", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list line history: %w", err)
	}
	return entries, nil
}
