package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scaenahub/internal/models"
	"scaenahub/internal/service"
)

func (h *Handler) listLines(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	lines, err := h.lineService.GetLines(c.Request.Context(), id, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *Handler) createLine(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	var req createLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}
	if msg, ok := validateLineFields(req.CharacterName, req.Dialogue, req.Lighting, req.AudioVideo, req.Notes); !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
		return
	}

	line, err := h.lineService.CreateLine(c.Request.Context(), id, service.CreateLineInput{
		LineNumber:    req.LineNumber,
		CharacterName: req.CharacterName,
		Dialogue:      req.Dialogue,
		Lighting:      req.Lighting,
		AudioVideo:    req.AudioVideo,
		Notes:         req.Notes,
	}, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	lineEditsTotal.WithLabelValues(string(models.ChangeTypeCreate)).Inc()
	c.JSON(http.StatusCreated, line)
}

func (h *Handler) updateLine(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}
	lineNumber, ok := lineNumberParam(c)
	if !ok {
		return
	}

	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}
	if msg, ok := validateLineFields(
		strOrEmpty(req.CharacterName),
		strOrEmpty(req.Dialogue),
		strOrEmpty(req.Lighting),
		strOrEmpty(req.AudioVideo),
		strOrEmpty(req.Notes),
	); !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
		return
	}

	line, err := h.lineService.UpdateLine(c.Request.Context(), id, lineNumber, service.UpdateLineInput{
		CharacterName: req.CharacterName,
		Dialogue:      req.Dialogue,
		Lighting:      req.Lighting,
		AudioVideo:    req.AudioVideo,
		Notes:         req.Notes,
	}, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	lineEditsTotal.WithLabelValues(string(models.ChangeTypeUpdate)).Inc()
	c.JSON(http.StatusOK, line)
}

func (h *Handler) deleteLine(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}
	lineNumber, ok := lineNumberParam(c)
	if !ok {
		return
	}

	if err := h.lineService.DeleteLine(c.Request.Context(), id, lineNumber, userID, roles); err != nil {
		handleServiceError(c, err)
		return
	}

	lineEditsTotal.WithLabelValues(string(models.ChangeTypeDelete)).Inc()
	c.JSON(http.StatusOK, gin.H{"message": "line deleted"})
}

func lineNumberParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("lineNumber"))
	if err != nil || n < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid line number"})
		return 0, false
	}
	return n, true
}

func validateLineFields(characterName, dialogue, lighting, audioVideo, notes string) (string, bool) {
	if len(characterName) > maxCharacterNameLength {
		return fmt.Sprintf("characterName must not exceed %d characters", maxCharacterNameLength), false
	}
	if len(dialogue) > maxDialogueLength {
		return fmt.Sprintf("dialogue must not exceed %d characters", maxDialogueLength), false
	}
	if len(lighting) > maxLightingLength {
		return fmt.Sprintf("lighting must not exceed %d characters", maxLightingLength), false
	}
	if len(audioVideo) > maxAudioVideoLength {
		return fmt.Sprintf("audioVideo must not exceed %d characters", maxAudioVideoLength), false
	}
	if len(notes) > maxNotesLength {
		return fmt.Sprintf("notes must not exceed %d characters", maxNotesLength), false
	}
	return "", true
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
