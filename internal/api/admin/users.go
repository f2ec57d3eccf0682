// users.go implements handlers for user administration: listing accounts and changing system-wide roles.
package admin

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/roomreserve/roomreserve/internal/config"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
)

// UserHandlers handles user management endpoints
type UserHandlers struct {
	cfg      *config.Config
	db       *sql.DB
	userRepo *repositories.UserRepository
}

// NewUserHandlers creates a new UserHandlers instance
func NewUserHandlers(cfg *config.Config, db *sql.DB) *UserHandlers {
	return &UserHandlers{
		cfg:      cfg,
		db:       db,
		userRepo: repositories.NewUserRepository(db),
	}
}

// @Summary      List users
// @Description  Get a paginated list of all user accounts. Admin only.
// @Tags         Users
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        per_page  query  int  false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "users: []models.User, pagination: map"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/admin/users [get]
// ListUsersHandler lists all users with pagination
// GET /api/admin/users?page=1&per_page=20
func (h *UserHandlers) ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Parse pagination parameters
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

		if page < 1 {
			page = 1
		}
		if perPage < 1 || perPage > 100 {
			perPage = 20
		}

		offset := (page - 1) * perPage

		users, total, err := h.userRepo.ListUsers(c.Request.Context(), perPage, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list users",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"users": users,
			"pagination": gin.H{
				"page":     page,
				"per_page": perPage,
				"total":    total,
			},
		})
	}
}

// UpdateUserRoleRequest represents the request to change a user's system-wide role
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// @Summary      Update user role
// @Description  Change a user's system-wide role. Takes effect on the user's next request.
// @Tags         Users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "User ID"
// @Param        body  body  UpdateUserRoleRequest  true  "New role: user, officer, or admin"
// @Success      200  {object}  map[string]interface{}  "user: models.User"
// @Failure      400  {object}  map[string]interface{}  "Invalid role"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "User not found"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/admin/users/{id}/role [patch]
// UpdateUserRoleHandler changes a user's system-wide role
// PATCH /api/admin/users/:id/role
func (h *UserHandlers) UpdateUserRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")

		var req UpdateUserRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		if req.Role != models.RoleUser && req.Role != models.RoleOfficer && req.Role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid role",
				"field": "role",
			})
			return
		}

		user, err := h.userRepo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		if err := h.userRepo.UpdateUserRole(c.Request.Context(), userID, req.Role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update user role",
			})
			return
		}

		user.Role = req.Role
		c.JSON(http.StatusOK, gin.H{
			"user": user,
		})
	}
}
