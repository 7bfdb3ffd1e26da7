package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scaenahub/internal/models"
)

// ScriptLoader resolves a script through the cache, falling back to the
// durable store. It performs no permission checks; callers apply CanView or
// CanEdit themselves. Implemented by the script service so every component
// shares one cache.
type ScriptLoader interface {
	LoadScript(ctx context.Context, id uuid.UUID) (*models.Script, error)
}

// HistoryRecorder appends one audit entry per line mutation. Implemented by
// the version service.
type HistoryRecorder interface {
	RecordLineHistory(ctx context.Context, line *models.ScriptLine, changeType models.ChangeType, description string, editedBy uuid.UUID) error
}

// nowOrDefault returns the injected clock or time.Now. Services take the
// clock as a constructor argument so lock and session expiry are
// deterministic under test.
func nowOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
