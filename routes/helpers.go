package routes

import (
	"net/http"

	"distance-learning-backend/app/model"
	"distance-learning-backend/middleware"
	"distance-learning-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes a service error with its mapped status. Typed
// application errors carry their own human-readable message; anything else is
// an unexpected store failure reported with the fallback message.
func respondError(c *gin.Context, fallback string, err error) {
	status := utils.StatusOf(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, utils.BuildResponseFailed(fallback, err.Error(), nil))
		return
	}
	c.JSON(status, utils.BuildResponseFailed(err.Error(), nil, nil))
}

// requireRole enforces an exact role match on the resolved caller. A mismatch
// is 403 Forbidden, distinct from the middleware's 401s.
func requireRole(c *gin.Context, role string) *model.User {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized,
			utils.BuildResponseFailed("Authentication required", "no_current_user", nil))
		return nil
	}
	if user.Role != role {
		c.JSON(http.StatusForbidden,
			utils.BuildResponseFailed("Access restricted to "+role+" accounts", "forbidden", nil))
		return nil
	}
	return user
}

// parseIDParam parses the :id path parameter as a UUID, answering 400 itself
// when the value is malformed.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			utils.BuildResponseFailed("Invalid id parameter", err.Error(), nil))
		return uuid.Nil, false
	}
	return id, true
}
