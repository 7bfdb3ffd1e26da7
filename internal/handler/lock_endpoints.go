package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scaenahub/internal/models"
)

func (h *Handler) listLocks(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	locks, err := h.lockService.GetLocks(c.Request.Context(), id, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, locks)
}

func (h *Handler) acquireLock(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	var req acquireLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}
	if req.LineNumber != nil && *req.LineNumber < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid line number"})
		return
	}
	// Zero means "use the default"; anything else is clamped to sane bounds.
	duration := req.DurationMinutes
	if duration != 0 {
		if duration < minLockMinutes {
			duration = minLockMinutes
		}
		if duration > maxLockMinutes {
			duration = maxLockMinutes
		}
	}

	lock, err := h.lockService.AcquireLock(c.Request.Context(), id, req.LineNumber, duration, userID, roles)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			lockConflictsTotal.Inc()
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lock)
}

func (h *Handler) releaseLock(c *gin.Context) {
	userID, _, _, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	var req releaseLockRequest
	// Empty body releases the caller's whole-script lock.
	_ = c.ShouldBindJSON(&req)

	if err := h.lockService.ReleaseLock(c.Request.Context(), id, req.LineNumber, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lock released"})
}

// listSessions requires no identity: presence is public.
func (h *Handler) listSessions(c *gin.Context) {
	id, ok := scriptID(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.GetActiveSessions(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) startSession(c *gin.Context) {
	userID, userName, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), id, userID, userName, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) heartbeat(c *gin.Context) {
	if _, _, _, ok := identity(c); !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := h.sessionService.Heartbeat(c.Request.Context(), sessionID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "heartbeat recorded"})
}

func (h *Handler) endSession(c *gin.Context) {
	if _, _, _, ok := identity(c); !ok {
		return
	}
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := h.sessionService.EndSession(c.Request.Context(), sessionID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}

func sessionIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("sessionID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}
