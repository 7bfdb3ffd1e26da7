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
var _ VersionRepository = (*pgVersionRepository)(nil)

const versionColumns = `id, script_id, version, title, description, change_description, created_by, created_at`

type pgVersionRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPgVersionRepository creates a VersionRepository over the durable store.
// Versions are append-only: there is no update or delete path.
func NewPgVersionRepository(s store.Store, logger *zap.Logger) VersionRepository {
	return &pgVersionRepository{
		store:  s,
		logger: logger.Named("PgVersionRepo"),
	}
}

func (r *pgVersionRepository) Create(ctx context.Context, version *models.ScriptVersion) error {
	logFields := []zap.Field{
		zap.String("scriptID", version.ScriptID.String()),
		zap.Int("version", version.Version),
	}
	r.logger.Debug("Creating script version", logFields...)

	err := r.store.Write(ctx, "script_versions", store.OpInsert, version.ID.String(), map[string]any{
		"id":                 version.ID,
		"script_id":          version.ScriptID,
		"version":            version.Version,
		"title":              version.Title,
		"description":        version.Description,
		"change_description": version.ChangeDescription,
		"created_by":         version.CreatedBy,
		"created_at":         version.CreatedAt,
	})
	if err != nil {
		r.logger.Warn("Failed to create script version", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Script version created", logFields...)
	return nil
}

func (r *pgVersionRepository) MaxVersion(ctx context.Context, scriptID uuid.UUID) (int, error) {
	var max int
	err := r.store.Get(ctx, &max, `SELECT COALESCE(MAX(version), 0) FROM script_versions WHERE script_id = $1`, scriptID)
	if err != nil {
		r.logger.Error("Failed to get max version", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to get max version: %w", err)
	}
	return max, nil
}

func (r *pgVersionRepository) ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM script_versions WHERE script_id = $1 ORDER BY version DESC`, versionColumns)
	versions := []models.ScriptVersion{}
	if err := r.store.Select(ctx, &versions, query, scriptID); err != nil {
		r.logger.Error("Failed to list script versions", zap.String("scriptID", scriptID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list script versions: %w", err)
	}
	return versions, nil
}
