package middleware

import (
	"net/http"
	"strings"

	"distance-learning-backend/app/model"
	"distance-learning-backend/app/service"
	"distance-learning-backend/utils"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey is the gin context key the resolved caller is stored under.
const CurrentUserKey = "currentUser"

// AuthMiddleware validates the bearer token and resolves its subject to a
// user record. A missing or malformed header and an invalid token are both
// 401; role and ownership checks happen later and yield 403 instead.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Authentication required", "missing_or_invalid_authorization_header", nil))
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Authentication required", "empty_token", nil))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Invalid or expired token", err.Error(), nil))
			c.Abort()
			return
		}

		user, err := authService.GetByLogin(claims.Login)
		if err != nil {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Invalid token", err.Error(), nil))
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser pulls the caller resolved by AuthMiddleware out of the context.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
