package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/cache"
	"scaenahub/internal/models"
	"scaenahub/internal/repository"
)

// CreateScriptInput carries the caller-supplied fields of a new script.
type CreateScriptInput struct {
	Title       string
	Description string
	ViewRoles   []string
	EditRoles   []string
	ViewUsers   []uuid.UUID
	EditUsers   []uuid.UUID
}

// UpdateScriptInput carries a partial script update; nil fields are left
// unchanged. ID, owner, and creation time are immutable and have no field.
type UpdateScriptInput struct {
	Title       *string
	Description *string
	IsActive    *bool
	ViewRoles   *[]string
	EditRoles   *[]string
	ViewUsers   *[]uuid.UUID
	EditUsers   *[]uuid.UUID
}

// ScriptService manages scripts and fronts the read-through cache.
type ScriptService interface {
	ScriptLoader
	GetAllScripts(ctx context.Context, userID uuid.UUID, roles []string) ([]models.Script, error)
	GetScriptByID(ctx context.Context, id uuid.UUID, userID uuid.UUID, roles []string) (*models.Script, error)
	CreateScript(ctx context.Context, input CreateScriptInput, userID uuid.UUID, roles []string) (*models.Script, error)
	UpdateScript(ctx context.Context, id uuid.UUID, input UpdateScriptInput, userID uuid.UUID, roles []string) (*models.Script, error)
	DeleteScript(ctx context.Context, id uuid.UUID, userID uuid.UUID, roles []string) error
}

type scriptServiceImpl struct {
	scriptRepo repository.ScriptRepository
	cache      *cache.ScriptCache
	logger     *zap.Logger
	now        func() time.Time
}

// NewScriptService creates a ScriptService. now is injected for tests; pass
// nil to use time.Now.
func NewScriptService(
	scriptRepo repository.ScriptRepository,
	scriptCache *cache.ScriptCache,
	logger *zap.Logger,
	now func() time.Time,
) ScriptService {
	return &scriptServiceImpl{
		scriptRepo: scriptRepo,
		cache:      scriptCache,
		logger:     logger.Named("ScriptService"),
		now:        nowOrDefault(now),
	}
}

// refreshScripts reloads the whole active-script set once the cache window
// has elapsed. Coarse by design; see the cache package.
func (s *scriptServiceImpl) refreshScripts(ctx context.Context) error {
	if !s.cache.NeedsRefresh() {
		return nil
	}
	scripts, err := s.scriptRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to refresh script cache", zap.Error(err))
		return err
	}
	s.cache.ReplaceScripts(scripts)
	s.logger.Debug("Script cache refreshed", zap.Int("count", len(scripts)))
	return nil
}

// LoadScript resolves a script through the cache with a store fallback. No
// permission check; callers gate access themselves.
func (s *scriptServiceImpl) LoadScript(ctx context.Context, id uuid.UUID) (*models.Script, error) {
	if err := s.refreshScripts(ctx); err != nil {
		return nil, err
	}
	if script, ok := s.cache.GetScript(id); ok {
		return script, nil
	}
	script, err := s.scriptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NotFoundError("script")
		}
		return nil, err
	}
	s.cache.PutScript(script)
	return script, nil
}

// GetAllScripts returns the scripts visible to the caller. Scripts the
// caller may not view are filtered out, not rejected.
func (s *scriptServiceImpl) GetAllScripts(ctx context.Context, userID uuid.UUID, roles []string) ([]models.Script, error) {
	if err := s.refreshScripts(ctx); err != nil {
		return nil, err
	}
	all := s.cache.Scripts()
	visible := make([]models.Script, 0, len(all))
	for i := range all {
		if CanView(&all[i], userID, roles) {
			visible = append(visible, all[i])
		}
	}
	return visible, nil
}

// GetScriptByID returns the script if the caller may view it. A script the
// caller may not view answers NotFound, indistinguishable from a missing
// one, so identities cannot be probed.
func (s *scriptServiceImpl) GetScriptByID(ctx context.Context, id uuid.UUID, userID uuid.UUID, roles []string) (*models.Script, error) {
	script, err := s.LoadScript(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(script, userID, roles) {
		s.logger.Debug("Script hidden from caller",
			zap.String("scriptID", id.String()),
			zap.String("userID", userID.String()),
		)
		return nil, models.NotFoundError("script")
	}
	return script, nil
}

func (s *scriptServiceImpl) CreateScript(ctx context.Context, input CreateScriptInput, userID uuid.UUID, roles []string) (*models.Script, error) {
	now := s.now().UTC()
	script := &models.Script{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		IsActive:    true,
		ViewRoles:   emptyIfNil(input.ViewRoles),
		EditRoles:   emptyIfNil(input.EditRoles),
		ViewUsers:   emptyIfNilUUID(input.ViewUsers),
		EditUsers:   emptyIfNilUUID(input.EditUsers),
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.scriptRepo.Create(ctx, script); err != nil {
		return nil, err
	}
	// Store write succeeded; the cache is updated synchronously in the same
	// operation so the writer reads its own write.
	s.cache.PutScript(script)

	s.logger.Info("Script created",
		zap.String("scriptID", script.ID.String()),
		zap.String("createdBy", userID.String()),
	)
	return script, nil
}

func (s *scriptServiceImpl) UpdateScript(ctx context.Context, id uuid.UUID, input UpdateScriptInput, userID uuid.UUID, roles []string) (*models.Script, error) {
	script, err := s.LoadScript(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanEdit(script, userID, roles) {
		return nil, models.PermissionError("script")
	}

	if input.Title != nil {
		script.Title = *input.Title
	}
	if input.Description != nil {
		script.Description = *input.Description
	}
	if input.IsActive != nil {
		script.IsActive = *input.IsActive
	}
	if input.ViewRoles != nil {
		script.ViewRoles = *input.ViewRoles
	}
	if input.EditRoles != nil {
		script.EditRoles = *input.EditRoles
	}
	if input.ViewUsers != nil {
		script.ViewUsers = *input.ViewUsers
	}
	if input.EditUsers != nil {
		script.EditUsers = *input.EditUsers
	}
	script.UpdatedAt = s.now().UTC()

	if err := s.scriptRepo.Update(ctx, script); err != nil {
		return nil, err
	}
	s.cache.PutScript(script)

	s.logger.Info("Script updated", zap.String("scriptID", id.String()))
	return script, nil
}

// DeleteScript requires admin role or ownership, a stricter check than the
// generic edit permission. Lines go with the script in the durable store;
// the cache entry is evicted here.
func (s *scriptServiceImpl) DeleteScript(ctx context.Context, id uuid.UUID, userID uuid.UUID, roles []string) error {
	script, err := s.LoadScript(ctx, id)
	if err != nil {
		return err
	}
	if !CanDelete(script, userID, roles) {
		return models.PermissionError("script")
	}

	if err := s.scriptRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.DeleteScript(id)

	s.logger.Info("Script deleted",
		zap.String("scriptID", id.String()),
		zap.String("deletedBy", userID.String()),
	)
	return nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func emptyIfNilUUID(in []uuid.UUID) []uuid.UUID {
	if in == nil {
		return []uuid.UUID{}
	}
	return in
}
