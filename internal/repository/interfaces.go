package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scaenahub/internal/models"
)

// ScriptRepository persists scripts.
type ScriptRepository interface {
	Create(ctx context.Context, script *models.Script) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Script, error)
	ListActive(ctx context.Context) ([]models.Script, error)
	Update(ctx context.Context, script *models.Script) error
	// Delete removes the script; its lines go with it (FK cascade in the
	// durable store).
	Delete(ctx context.Context, id uuid.UUID) error
}

// LineRepository persists script lines.
type LineRepository interface {
	Create(ctx context.Context, line *models.ScriptLine) error
	ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptLine, error)
	GetByNumber(ctx context.Context, scriptID uuid.UUID, lineNumber int) (*models.ScriptLine, error)
	Update(ctx context.Context, line *models.ScriptLine) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LockRepository persists advisory locks. Expired rows are never returned;
// they stay in storage until externally purged.
type LockRepository interface {
	Create(ctx context.Context, lock *models.ScriptLock) error
	// ListUnexpired returns all locks on a script still valid at now.
	ListUnexpired(ctx context.Context, scriptID uuid.UUID, now time.Time) ([]models.ScriptLock, error)
	// ListConflicting returns unexpired locks that would collide with a
	// request for (scriptID, lineNumber): same line number, or whole-script
	// locks. lineNumber == nil asks about a whole-script lock.
	ListConflicting(ctx context.Context, scriptID uuid.UUID, lineNumber *int, now time.Time) ([]models.ScriptLock, error)
	// Release deletes lock rows matching (scriptID, lineNumber, userID) and
	// returns how many were removed. Ownership is expressed only through the
	// userID filter; there is no separate verification step.
	Release(ctx context.Context, scriptID uuid.UUID, lineNumber *int, userID uuid.UUID) (int64, error)
}

// SessionRepository persists edit sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.ScriptEditSession) error
	// Touch moves lastActivity to now. The session owner is not re-verified.
	Touch(ctx context.Context, sessionID uuid.UUID, now time.Time) error
	// End marks the session inactive.
	End(ctx context.Context, sessionID uuid.UUID) error
	// ListActive returns sessions with isActive true and lastActivity after
	// cutoff. This read-time filter is the single source of truth for
	// presence; stored isActive flags are never reconciled.
	ListActive(ctx context.Context, scriptID uuid.UUID, cutoff time.Time) ([]models.ScriptEditSession, error)
}

// VersionRepository persists immutable script checkpoints.
type VersionRepository interface {
	Create(ctx context.Context, version *models.ScriptVersion) error
	// MaxVersion returns the highest version number for a script, 0 if none.
	MaxVersion(ctx context.Context, scriptID uuid.UUID) (int, error)
	ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptVersion, error)
}

// HistoryRepository persists the append-only line audit trail.
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.ScriptLineHistory) error
	// ListByScript returns history newest-first, optionally filtered to one
	// line number.
	ListByScript(ctx context.Context, scriptID uuid.UUID, lineNumber *int) ([]models.ScriptLineHistory, error)
}

// SceneRepository persists scenes.
type SceneRepository interface {
	Create(ctx context.Context, scene *models.ScriptScene) error
	// MaxSceneNumber returns the highest scene number for a script, 0 if none.
	MaxSceneNumber(ctx context.Context, scriptID uuid.UUID) (int, error)
	ListByScript(ctx context.Context, scriptID uuid.UUID) ([]models.ScriptScene, error)
}

// PrintSettingsRepository persists print settings as an append-only series;
// only the latest record matters.
type PrintSettingsRepository interface {
	Create(ctx context.Context, settings *models.ScriptPrintSettings) error
	GetLatest(ctx context.Context, scriptID uuid.UUID) (*models.ScriptPrintSettings, error)
}

// UserRepository persists collaborator accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// TokenRepository stores issued token identifiers for revocation.
type TokenRepository interface {
	SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error
	// FetchUserID resolves a stored access/refresh token UUID to its user, or
	// models.ErrNotFound if revoked or expired.
	FetchUserID(ctx context.Context, tokenUUID string) (uuid.UUID, error)
	DeleteToken(ctx context.Context, tokenUUID string) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}
