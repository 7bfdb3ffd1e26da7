package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/auth"
	"scaenahub/internal/middleware"
	"scaenahub/internal/models"
	"scaenahub/internal/service"
)

// Handler wires the HTTP surface to the services.
type Handler struct {
	authService    auth.Service
	scriptService  service.ScriptService
	lineService    service.LineService
	lockService    service.LockService
	sessionService service.SessionService
	versionService service.VersionService
	sceneService   service.SceneService
	printService   service.PrintService
	verifier       middleware.TokenVerifier
	logger         *zap.Logger
}

func NewHandler(
	authService auth.Service,
	scriptService service.ScriptService,
	lineService service.LineService,
	lockService service.LockService,
	sessionService service.SessionService,
	versionService service.VersionService,
	sceneService service.SceneService,
	printService service.PrintService,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		authService:    authService,
		scriptService:  scriptService,
		lineService:    lineService,
		lockService:    lockService,
		sessionService: sessionService,
		versionService: versionService,
		sceneService:   sceneService,
		printService:   printService,
		verifier:       verifier,
		logger:         logger.Named("Handler"),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/refresh", h.refresh)
		authGroup.POST("/logout", middleware.AuthMiddleware(h.verifier, h.logger), h.logout)
		authGroup.POST("/logout-all", middleware.AuthMiddleware(h.verifier, h.logger), h.logoutAll)
	}

	// Presence is public: anyone may see who is editing a script.
	router.GET("/api/scripts/:id/sessions", h.listSessions)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(h.verifier, h.logger))
	{
		api.GET("/me", h.me)

		api.GET("/scripts", h.listScripts)
		api.POST("/scripts", h.createScript)
		api.GET("/scripts/:id", h.getScript)
		api.PUT("/scripts/:id", h.updateScript)
		api.DELETE("/scripts/:id", h.deleteScript)

		api.GET("/scripts/:id/lines", h.listLines)
		api.POST("/scripts/:id/lines", h.createLine)
		api.PUT("/scripts/:id/lines/:lineNumber", h.updateLine)
		api.DELETE("/scripts/:id/lines/:lineNumber", h.deleteLine)

		api.GET("/scripts/:id/locks", h.listLocks)
		api.POST("/scripts/:id/lock", h.acquireLock)
		api.DELETE("/scripts/:id/lock", h.releaseLock)

		api.POST("/scripts/:id/sessions", h.startSession)
		api.PUT("/sessions/:sessionID/heartbeat", h.heartbeat)
		api.DELETE("/sessions/:sessionID", h.endSession)

		api.GET("/scripts/:id/versions", h.listVersions)
		api.POST("/scripts/:id/versions", h.createVersion)
		api.GET("/scripts/:id/history", h.listLineHistory)

		api.GET("/scripts/:id/scenes", h.listScenes)
		api.POST("/scripts/:id/scenes", h.createScene)

		api.GET("/scripts/:id/print-settings", h.getPrintSettings)
		api.PUT("/scripts/:id/print-settings", h.savePrintSettings)
		api.GET("/scripts/:id/print", h.printData)
	}
}

// identity pulls the authenticated caller from the request context. The auth
// middleware guarantees presence on every /api route.
func identity(c *gin.Context) (uuid.UUID, string, []string, bool) {
	ctx := c.Request.Context()
	userID, ok := models.GetUserIDFromContext(ctx)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing identity"})
		return uuid.Nil, "", nil, false
	}
	userName, _ := models.GetUserNameFromContext(ctx)
	roles, _ := models.GetRolesFromContext(ctx)
	return userID, userName, roles, true
}

// scriptID parses the :id path parameter.
func scriptID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid script id"})
		return uuid.Nil, false
	}
	return id, true
}
