package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listVersions(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	versions, err := h.versionService.GetVersions(c.Request.Context(), id, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func (h *Handler) createVersion(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	var req createVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}
	if len(req.ChangeDescription) > maxChangeDescriptionLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("changeDescription must not exceed %d characters", maxChangeDescriptionLength)})
		return
	}

	version, err := h.versionService.CreateVersion(c.Request.Context(), id, req.ChangeDescription, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	versionsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, version)
}

func (h *Handler) listLineHistory(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	var lineNumber *int
	if raw := c.Query("lineNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid line number"})
			return
		}
		lineNumber = &n
	}

	history, err := h.versionService.GetLineHistory(c.Request.Context(), id, lineNumber, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
