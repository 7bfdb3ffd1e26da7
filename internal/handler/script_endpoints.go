package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scaenahub/internal/models"
	"scaenahub/internal/service"
)

func (h *Handler) listScripts(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}

	scripts, err := h.scriptService.GetAllScripts(c.Request.Context(), userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scripts)
}

func (h *Handler) getScript(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	script, err := h.scriptService.GetScriptByID(c.Request.Context(), id, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, script)
}

func (h *Handler) createScript(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}

	var req createScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}
	if msg, ok := validateScriptFields(req.Title, req.Description); !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
		return
	}
	if msg, ok := validateRoleNames(req.ViewRoles, req.EditRoles); !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
		return
	}

	viewUsers, err := parseUserIDs(req.ViewUsers)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid viewUsers: " + err.Error()})
		return
	}
	editUsers, err := parseUserIDs(req.EditUsers)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid editUsers: " + err.Error()})
		return
	}

	script, err := h.scriptService.CreateScript(c.Request.Context(), service.CreateScriptInput{
		Title:       req.Title,
		Description: req.Description,
		ViewRoles:   req.ViewRoles,
		EditRoles:   req.EditRoles,
		ViewUsers:   viewUsers,
		EditUsers:   editUsers,
	}, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, script)
}

func (h *Handler) updateScript(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	var req updateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}
	if req.Title != nil {
		if msg, ok := validateScriptFields(*req.Title, ""); !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
			return
		}
	}
	if req.Description != nil && len(*req.Description) > maxDescriptionLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("description must not exceed %d characters", maxDescriptionLength)})
		return
	}
	var viewRoles, editRoles []string
	if req.ViewRoles != nil {
		viewRoles = *req.ViewRoles
	}
	if req.EditRoles != nil {
		editRoles = *req.EditRoles
	}
	if msg, ok := validateRoleNames(viewRoles, editRoles); !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
		return
	}

	input := service.UpdateScriptInput{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
		ViewRoles:   req.ViewRoles,
		EditRoles:   req.EditRoles,
	}
	if req.ViewUsers != nil {
		ids, err := parseUserIDs(*req.ViewUsers)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid viewUsers: " + err.Error()})
			return
		}
		input.ViewUsers = &ids
	}
	if req.EditUsers != nil {
		ids, err := parseUserIDs(*req.EditUsers)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid editUsers: " + err.Error()})
			return
		}
		input.EditUsers = &ids
	}

	script, err := h.scriptService.UpdateScript(c.Request.Context(), id, input, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, script)
}

func (h *Handler) deleteScript(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	if err := h.scriptService.DeleteScript(c.Request.Context(), id, userID, roles); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "script deleted"})
}

func validateScriptFields(title, description string) (string, bool) {
	if title == "" {
		return "title must not be empty", false
	}
	if len(title) > maxTitleLength {
		return fmt.Sprintf("title must not exceed %d characters", maxTitleLength), false
	}
	if len(description) > maxDescriptionLength {
		return fmt.Sprintf("description must not exceed %d characters", maxDescriptionLength), false
	}
	return "", true
}

// validateRoleNames rejects role names outside the defined set.
func validateRoleNames(roleLists ...[]string) (string, bool) {
	known := models.AllRoles()
	for _, list := range roleLists {
		for _, role := range list {
			if !models.HasRole(known, role) {
				return fmt.Sprintf("%q is not a valid role", role), false
			}
		}
	}
	return "", true
}

func parseUserIDs(in []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid user id", s)
		}
		out = append(out, id)
	}
	return out, nil
}
