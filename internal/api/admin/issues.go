// issues.go implements the admin listing endpoint for reported issues.
package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
)

// IssueAdminHandlers handles admin issue review endpoints
type IssueAdminHandlers struct {
	issueRepo *repositories.IssueRepository
}

// NewIssueAdminHandlers creates a new IssueAdminHandlers instance
func NewIssueAdminHandlers(db *sqlx.DB) *IssueAdminHandlers {
	return &IssueAdminHandlers{
		issueRepo: repositories.NewIssueRepository(db),
	}
}

// @Summary      List issues
// @Description  Get a paginated list of reported issues, newest first. Admin only.
// @Tags         Issues
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        per_page  query  int  false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "issues: []models.Issue"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/admin/issues [get]
// ListIssuesHandler lists reported issues with pagination
// GET /api/admin/issues?page=1&per_page=20
func (h *IssueAdminHandlers) ListIssuesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

		if page < 1 {
			page = 1
		}
		if perPage < 1 || perPage > 100 {
			perPage = 20
		}

		offset := (page - 1) * perPage

		issues, err := h.issueRepo.ListIssues(c.Request.Context(), perPage, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list issues",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"issues": issues,
			"pagination": gin.H{
				"page":     page,
				"per_page": perPage,
			},
		})
	}
}
