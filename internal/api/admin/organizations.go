// organizations.go implements handlers for organization CRUD operations and membership management.
package admin

import (
	"database/sql"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roomreserve/roomreserve/internal/config"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
)

// OrganizationHandlers handles organization management endpoints
type OrganizationHandlers struct {
	cfg      *config.Config
	db       *sql.DB
	orgRepo  *repositories.OrganizationRepository
	userRepo *repositories.UserRepository
}

// NewOrganizationHandlers creates a new OrganizationHandlers instance
func NewOrganizationHandlers(cfg *config.Config, db *sql.DB) *OrganizationHandlers {
	return &OrganizationHandlers{
		cfg:      cfg,
		db:       db,
		orgRepo:  repositories.NewOrganizationRepository(db),
		userRepo: repositories.NewUserRepository(db),
	}
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL-safe slug from an organization name.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugCleaner.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// @Summary      List organizations
// @Description  Get a paginated list of all organizations.
// @Tags         Organizations
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        per_page  query  int  false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "organizations: []models.Organization, pagination: {page, per_page, total}"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/organizations [get]
// ListOrganizationsHandler lists all organizations with pagination
// GET /api/organizations?page=1&per_page=20
func (h *OrganizationHandlers) ListOrganizationsHandler() gin.HandlerFunc {
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

		// Get organizations from repository
		orgs, err := h.orgRepo.List(c.Request.Context(), perPage, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list organizations",
			})
			return
		}

		// Get total count
		total, err := h.orgRepo.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to count organizations",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"organizations": orgs,
			"pagination": gin.H{
				"page":     page,
				"per_page": perPage,
				"total":    total,
			},
		})
	}
}

// @Summary      Get organization
// @Description  Retrieve a specific organization by its ID, including member list.
// @Tags         Organizations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Organization ID"
// @Success      200  {object}  map[string]interface{}  "organization: models.Organization, members: []models.OrganizationMemberWithUser"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "Organization not found"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/organizations/{id} [get]
// GetOrganizationHandler retrieves a specific organization by ID
// GET /api/organizations/:id
func (h *OrganizationHandlers) GetOrganizationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("id")

		org, err := h.orgRepo.GetByID(c.Request.Context(), orgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve organization",
			})
			return
		}

		if org == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Organization not found",
			})
			return
		}

		// Get organization members with user details
		members, err := h.orgRepo.ListMembersWithUsers(c.Request.Context(), orgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve organization members",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"organization": org,
			"members":      members,
		})
	}
}

// @Summary      List organization members
// @Description  Retrieve all members of a specific organization including user details.
// @Tags         Organizations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Organization ID"
// @Success      200  {object}  map[string]interface{}  "members: []models.OrganizationMemberWithUser"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "Organization not found"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/organizations/{id}/members [get]
// ListMembersHandler retrieves all members of an organization with user details
// GET /api/organizations/:id/members
func (h *OrganizationHandlers) ListMembersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("id")

		// Check if organization exists
		org, err := h.orgRepo.GetByID(c.Request.Context(), orgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve organization",
			})
			return
		}

		if org == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Organization not found",
			})
			return
		}

		// Get members with user details
		members, err := h.orgRepo.ListMembersWithUsers(c.Request.Context(), orgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve organization members",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"members": members,
		})
	}
}

// CreateOrganizationRequest represents the request to create a new organization
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"` // Optional; derived from name when empty
}

// @Summary      Create organization
// @Description  Create a new organization that bookings can be made on behalf of.
// @Tags         Organizations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  CreateOrganizationRequest  true  "Organization name and optional slug"
// @Success      201  {object}  map[string]interface{}  "organization: models.Organization"
// @Failure      400  {object}  map[string]interface{}  "Invalid request body"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      409  {object}  map[string]interface{}  "Organization with this slug already exists"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/organizations [post]
// CreateOrganizationHandler creates a new organization
// POST /api/organizations
func (h *OrganizationHandlers) CreateOrganizationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrganizationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		slug := req.Slug
		if slug == "" {
			slug = slugify(req.Name)
		}
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "A slug could not be derived from the organization name",
				"field": "name",
			})
			return
		}

		// Check if organization already exists
		existingOrg, err := h.orgRepo.GetBySlug(c.Request.Context(), slug)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check existing organization",
			})
			return
		}

		if existingOrg != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Organization with this slug already exists",
			})
			return
		}

		// Create organization
		org := &models.Organization{
			Name: req.Name,
			Slug: slug,
		}

		if err := h.orgRepo.CreateOrganization(c.Request.Context(), org); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create organization",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"organization": org,
		})
	}
}

// AddMemberRequest represents the request to add or update an organization member
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role"` // owner|officer|member; defaults to officer
}

// @Summary      Add or update organization member
// @Description  Add a user to an organization or update their role if already a member. The operation is idempotent.
// @Tags         Organizations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "Organization ID"
// @Param        body  body  AddMemberRequest  true  "Member user_id and optional role"
// @Success      200  {object}  map[string]interface{}  "member: models.OrganizationMember"
// @Failure      400  {object}  map[string]interface{}  "Invalid request or unknown role"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "Organization or user not found"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/organizations/{id}/members [post]
// AddMemberHandler upserts an organization membership
// POST /api/organizations/:id/members
func (h *OrganizationHandlers) AddMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("id")

		var req AddMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		if req.Role != "" && req.Role != models.OrgRoleOwner &&
			req.Role != models.OrgRoleOfficer && req.Role != models.OrgRoleMember {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid organization role",
				"field": "role",
			})
			return
		}

		// Check if organization exists
		org, err := h.orgRepo.GetByID(c.Request.Context(), orgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve organization",
			})
			return
		}
		if org == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Organization not found",
			})
			return
		}

		// Check if user exists
		user, err := h.userRepo.GetUserByID(c.Request.Context(), req.UserID)
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

		role := req.Role
		if role == "" {
			role = models.OrgRoleOfficer
		}

		member := &models.OrganizationMember{
			UserID:         req.UserID,
			OrganizationID: orgID,
			Role:           role,
		}
		if err := h.orgRepo.UpsertMember(c.Request.Context(), member); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to add organization member",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"member": member,
		})
	}
}

// @Summary      Remove organization member
// @Description  Remove a user from an organization. Removing a non-member is a no-op.
// @Tags         Organizations
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "Organization ID"
// @Param        user_id  path  string  true  "User ID"
// @Success      200  {object}  map[string]interface{}  "message: Member removed"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      404  {object}  map[string]interface{}  "Organization not found"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/organizations/{id}/members/{user_id} [delete]
// RemoveMemberHandler removes a member from an organization
// DELETE /api/organizations/:id/members/:user_id
func (h *OrganizationHandlers) RemoveMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("id")

		// Check if organization exists
		org, err := h.orgRepo.GetByID(c.Request.Context(), orgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve organization",
			})
			return
		}
		if org == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Organization not found",
			})
			return
		}

		if err := h.orgRepo.RemoveMember(c.Request.Context(), orgID, c.Param("user_id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to remove organization member",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Member removed",
		})
	}
}
