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
var _ PrintSettingsRepository = (*pgPrintSettingsRepository)(nil)

const printSettingsColumns = `id, script_id, page_size, orientation, font_size, margin_top, margin_bottom, margin_left, margin_right, include_characters, include_lighting, include_audio_video, include_notes, created_by, created_at`

type pgPrintSettingsRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPgPrintSettingsRepository creates a PrintSettingsRepository over the
// durable store. Saves append rows; only the newest one is ever read back.
func NewPgPrintSettingsRepository(s store.Store, logger *zap.Logger) PrintSettingsRepository {
	return &pgPrintSettingsRepository{
		store:  s,
		logger: logger.Named("PgPrintSettingsRepo"),
	}
}

func (r *pgPrintSettingsRepository) Create(ctx context.Context, settings *models.ScriptPrintSettings) error {
	logFields := []zap.Field{zap.String("scriptID", settings.ScriptID.String())}
	r.logger.Debug("Saving print settings", logFields...)

	err := r.store.Write(ctx, "script_print_settings", store.OpInsert, settings.ID.String(), map[string]any{
		"id":                  settings.ID,
		"script_id":           settings.ScriptID,
		"page_size":           settings.PageSize,
		"orientation":         settings.Orientation,
		"font_size":           settings.FontSize,
		"margin_top":          settings.MarginTop,
		"margin_bottom":       settings.MarginBottom,
		"margin_left":         settings.MarginLeft,
		"margin_right":        settings.MarginRight,
		"include_characters":  settings.IncludeCharacters,
		"include_lighting":    settings.IncludeLighting,
		"include_audio_video": settings.IncludeAudioVideo,
		"include_notes":       settings.IncludeNotes,
		"created_by":          settings.CreatedBy,
		"created_at":          settings.CreatedAt,
	})
	if err != nil {
		r.logger.Error("Failed to save print settings", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to save print settings: %w", err)
	}
	r.logger.Info("Print settings saved", logFields...)
	return nil
}

func (r *pgPrintSettingsRepository) GetLatest(ctx context.Context, scriptID uuid.UUID) (*models.ScriptPrintSettings, error) {
	query := fmt.Sprintf(`SELECT %s FROM script_print_settings
		WHERE script_id = $1 ORDER BY created_at DESC LIMIT 1`, printSettingsColumns)
	settings := &models.ScriptPrintSettings{}
	if err := r.store.Get(ctx, settings, query, scriptID); err != nil {
		return nil, err
	}
	return settings, nil
}
