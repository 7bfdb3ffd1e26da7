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
var _ ScriptRepository = (*pgScriptRepository)(nil)

const scriptColumns = `id, title, description, is_active, view_roles, edit_roles, view_users, edit_users, created_by, created_at, updated_at`

type pgScriptRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPgScriptRepository creates a ScriptRepository over the durable store.
func NewPgScriptRepository(s store.Store, logger *zap.Logger) ScriptRepository {
	return &pgScriptRepository{
		store:  s,
		logger: logger.Named("PgScriptRepo"),
	}
}

func (r *pgScriptRepository) Create(ctx context.Context, script *models.Script) error {
	logFields := []zap.Field{zap.String("scriptID", script.ID.String())}
	r.logger.Debug("Creating script", logFields...)

	err := r.store.Write(ctx, "scripts", store.OpInsert, script.ID.String(), map[string]any{
		"id":          script.ID,
		"title":       script.Title,
		"description": script.Description,
		"is_active":   script.IsActive,
		"view_roles":  script.ViewRoles,
		"edit_roles":  script.EditRoles,
		"view_users":  script.ViewUsers,
		"edit_users":  script.EditUsers,
		"created_by":  script.CreatedBy,
		"created_at":  script.CreatedAt,
		"updated_at":  script.UpdatedAt,
	})
	if err != nil {
		r.logger.Error("Failed to create script", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create script: %w", err)
	}
	r.logger.Info("Script created", logFields...)
	return nil
}

func (r *pgScriptRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	query := fmt.Sprintf(`SELECT %s FROM scripts WHERE id = $1`, scriptColumns)
	script := &models.Script{}
	if err := r.store.Get(ctx, script, query, id); err != nil {
		return nil, err
	}
	return script, nil
}

func (r *pgScriptRepository) ListActive(ctx context.Context) ([]models.Script, error) {
	query := fmt.Sprintf(`SELECT %s FROM scripts WHERE is_active = TRUE ORDER BY created_at DESC`, scriptColumns)
	scripts := []models.Script{}
	if err := r.store.Select(ctx, &scripts, query); err != nil {
		r.logger.Error("Failed to list active scripts", zap.Error(err))
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	return scripts, nil
}

// Update writes the mutable fields only; id, created_by, and created_at are
// immutable after creation.
func (r *pgScriptRepository) Update(ctx context.Context, script *models.Script) error {
	logFields := []zap.Field{zap.String("scriptID", script.ID.String())}
	r.logger.Debug("Updating script", logFields...)

	err := r.store.Write(ctx, "scripts", store.OpUpdate, script.ID.String(), map[string]any{
		"title":       script.Title,
		"description": script.Description,
		"is_active":   script.IsActive,
		"view_roles":  script.ViewRoles,
		"edit_roles":  script.EditRoles,
		"view_users":  script.ViewUsers,
		"edit_users":  script.EditUsers,
		"updated_at":  script.UpdatedAt,
	})
	if err != nil {
		r.logger.Warn("Failed to update script", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Script updated", logFields...)
	return nil
}

func (r *pgScriptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	logFields := []zap.Field{zap.String("scriptID", id.String())}
	if err := r.store.Write(ctx, "scripts", store.OpDelete, id.String(), nil); err != nil {
		r.logger.Warn("Failed to delete script", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Script deleted", logFields...)
	return nil
}
