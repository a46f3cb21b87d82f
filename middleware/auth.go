package middleware

import (
	"net/http"
	"strings"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor_id"

// Auth validates the bearer token and stores the acting user id on the
// context. Services never read the actor from ambient state; controllers pull
// it from here and pass it down explicitly.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authorization header is missing"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid authorization header format"})
			c.Abort()
			return
		}

		userID, err := utils.ParseAccessToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(actorKey, userID)
		c.Next()
	}
}

// ActorID returns the authenticated user id set by Auth.
func ActorID(c *gin.Context) uint {
	if v, ok := c.Get(actorKey); ok {
		if id, ok2 := v.(uint); ok2 {
			return id
		}
	}
	return 0
}

// RequirePermission gates a route group on one permission string. The check
// always happens before the controller runs, so a denied request writes
// nothing.
func RequirePermission(users *services.UserService, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := ActorID(c)
		if actorID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "not authenticated"})
			c.Abort()
			return
		}

		perms, err := users.PermissionsForUser(actorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to check permissions"})
			c.Abort()
			return
		}
		for _, p := range perms {
			if p == permission {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "permission denied"})
		c.Abort()
	}
}
