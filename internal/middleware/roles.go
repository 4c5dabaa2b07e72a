package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sling/backend/internal/models"
)

// RequireSupport gates the agent console: only SUPPORT, LEAD and ADMIN roles
// pass. Enforcement happens here, before any search translation runs.
func RequireSupport() gin.HandlerFunc {
	return RequireAnyRole(models.RoleSupport, models.RoleLead, models.RoleAdmin)
}

// RequireAnyRole allows the request through if the token role is one of the
// allowed roles. ADMIN always passes.
func RequireAnyRole(allowed ...models.UserRole) gin.HandlerFunc {
	allowedSet := make(map[models.UserRole]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		raw, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Role required",
			})
			c.Abort()
			return
		}

		role := models.UserRole(raw.(string))
		if role == models.RoleAdmin {
			c.Next()
			return
		}
		if _, ok := allowedSet[role]; !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Access denied",
				"code":    "ACCESS_DENIED",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
