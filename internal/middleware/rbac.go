// rbac.go implements role-based authorization middleware.
//
// Roles (user, officer, admin) are checked at request time from the context
// populated by AuthMiddleware, which itself reads the role from the database.
// Role changes therefore take effect immediately on the user's next request.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
)

// RequireAdmin rejects requests from non-admin users
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Administrator access required",
			})
			return
		}

		c.Next()
	}
}

// RequireRole rejects requests from users whose role is not in the allowed set
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		role, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	}
}

// RequireOrgMembership checks that the authenticated user is a member of the
// organization named in the :id route parameter. Admins bypass the check.
func RequireOrgMembership(orgRepo *repositories.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		if role, ok := c.Get("role"); ok && role == models.RoleAdmin {
			c.Next()
			return
		}

		orgID := c.Param("id")
		if orgID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Organization id is required",
			})
			return
		}

		isMember, _, err := orgRepo.CheckMembership(c.Request.Context(), orgID, userID.(string))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check membership",
			})
			return
		}
		if !isMember {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Not a member of this organization",
			})
			return
		}

		c.Next()
	}
}
