package middleware

import (
	"net/http"

	"chapelcast/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates content management routes to ADMIN accounts. Must run
// after AuthRequired, which puts the role claim in the context.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if r, ok := role.(string); !ok || r != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
