package handler

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"scaenahub/internal/middleware"
	"scaenahub/internal/models"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}

	if len(req.Username) < minUsernameLength || len(req.Username) > maxUsernameLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("username length must be between %d and %d characters", minUsernameLength, maxUsernameLength)})
		return
	}
	if !usernameRegex.MatchString(req.Username) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "username can only contain letters, numbers, underscores, and hyphens"})
		return
	}
	if len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("password length must be between %d and %d characters", minPasswordLength, maxPasswordLength)})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.DisplayName, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"id":          user.ID.String(),
		"username":    user.Username,
		"displayName": user.DisplayName,
		"roles":       user.Roles,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}

	td, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  td.AccessToken,
		"refreshToken": td.RefreshToken,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request data: " + err.Error()})
		return
	}

	td, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  td.AccessToken,
		"refreshToken": td.RefreshToken,
	})
}

// logoutAll revokes every token the caller holds, signing out all devices.
func (h *Handler) logoutAll(c *gin.Context) {
	userID, _, _, ok := identity(c)
	if !ok {
		return
	}
	if err := h.authService.LogoutAll(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out everywhere"})
}

func (h *Handler) me(c *gin.Context) {
	userID, userName, roles, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          userID.String(),
		"displayName": userName,
		"roles":       roles,
	})
}

func (h *Handler) logout(c *gin.Context) {
	var req logoutRequest
	// Body is optional: without a refresh token only the access token is
	// revoked.
	_ = c.ShouldBindJSON(&req)

	accessUUID := c.GetString(middleware.ContextAccessUUIDKey)

	refreshUUID := ""
	if req.RefreshToken != "" {
		claims := &models.Claims{}
		// The refresh token's jti is only used as a deletion key; no
		// signature check needed for that.
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(req.RefreshToken, claims); err == nil {
			refreshUUID = claims.ID
		}
	}

	if err := h.authService.Logout(c.Request.Context(), accessUUID, refreshUUID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
