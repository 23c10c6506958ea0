package middleware

import (
	"strings"

	"github.com/SaurabhKarki-25/Music-Platform/internal/auth"
	"github.com/SaurabhKarki-25/Music-Platform/internal/util"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the Bearer token and loads the user into the
// request context under "user" and "user_id".
func AuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.RespondUnauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			util.RespondUnauthorized(c, "authorization header must be a Bearer token")
			c.Abort()
			return
		}

		user, err := authService.ValidateToken(tokenString)
		if err != nil {
			util.RespondUnauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		if !user.IsActive {
			util.RespondUnauthorized(c, "account is deactivated")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// AdminMiddleware requires the authenticated user to be an admin.
// Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := util.GetUserFromContext(c)
		if !ok {
			c.Abort()
			return
		}
		if !user.IsAdmin {
			util.RespondForbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
