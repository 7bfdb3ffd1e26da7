package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scaenahub/internal/service"
)

func (h *Handler) listScenes(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	scenes, err := h.sceneService.GetScenes(c.Request.Context(), id, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenes)
}

func (h *Handler) createScene(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	var req createSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}
	if msg, ok := validateScriptFields(req.Title, req.Description); !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
		return
	}

	scene, err := h.sceneService.CreateScene(c.Request.Context(), id, service.CreateSceneInput{
		Title:           req.Title,
		Description:     req.Description,
		StartLineNumber: req.StartLineNumber,
		EndLineNumber:   req.EndLineNumber,
	}, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, scene)
}

func (h *Handler) getPrintSettings(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	settings, err := h.printService.GetPrintSettings(c.Request.Context(), id, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) savePrintSettings(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	var req printSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}

	settings, err := h.printService.SavePrintSettings(c.Request.Context(), id, service.PrintSettingsInput{
		PageSize:          req.PageSize,
		Orientation:       req.Orientation,
		FontSize:          req.FontSize,
		MarginTop:         req.MarginTop,
		MarginBottom:      req.MarginBottom,
		MarginLeft:        req.MarginLeft,
		MarginRight:       req.MarginRight,
		IncludeCharacters: req.IncludeCharacters,
		IncludeLighting:   req.IncludeLighting,
		IncludeAudioVideo: req.IncludeAudioVideo,
		IncludeNotes:      req.IncludeNotes,
	}, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) printData(c *gin.Context) {
	userID, _, roles, ok := identity(c)
	if !ok {
		return
	}
	id, ok := scriptID(c)
	if !ok {
		return
	}

	data, err := h.printService.GeneratePrintData(c.Request.Context(), id, userID, roles)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
