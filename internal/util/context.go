package util

import (
	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/gin-gonic/gin"
)

// GetUserFromContext returns the user the auth middleware loaded into the
// request context. On a missing or malformed entry it writes the error
// response itself; callers only need to stop handling.
func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		RespondUnauthorized(c)
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok {
		RespondInternalError(c, "malformed user in request context")
		return nil, false
	}
	return user, true
}

// GetUserIDFromContext is the id-only variant of GetUserFromContext, for
// handlers that never touch the user record. Same response contract.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		RespondUnauthorized(c)
		return "", false
	}
	userID, ok := v.(string)
	if !ok {
		RespondInternalError(c, "malformed user id in request context")
		return "", false
	}
	return userID, true
}
