package routes

import (
	"net/http"

	"distance-learning-backend/app/service"
	"distance-learning-backend/middleware"
	"distance-learning-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves the login endpoint and the caller profile.
type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SetupAuthRoutes registers /auth/login (open) and /auth/me (token-gated).
func (h *AuthHandler) SetupAuthRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", auth, h.Me)
	}
}

// Login checks credentials and returns a bearer token. The login field also
// accepts an email address.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var input struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Login and password are required", err.Error(), nil))
		return
	}

	token, err := h.authService.Login(input.Login, input.Password)
	if err != nil {
		respondError(ctx, "Login failed", err)
		return
	}

	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Login successful", gin.H{
		"access_token": token,
		"token_type":   "bearer",
	}))
}

// Me returns the caller profile resolved by the auth middleware.
func (h *AuthHandler) Me(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		ctx.JSON(http.StatusUnauthorized,
			utils.BuildResponseFailed("Authentication required", "no_current_user", nil))
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Profile fetched", user))
}
