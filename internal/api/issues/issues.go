// issues.go implements the issue intake endpoint. Reports are accepted from
// anyone; when a valid session is present the report is attributed to the
// user, otherwise it is stored anonymously. The response carries only the
// created id so anonymous reporters learn nothing about stored records.
package issues

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
	"github.com/roomreserve/roomreserve/internal/telemetry"
)

// MaxDescriptionLength caps issue descriptions to keep reports reviewable.
const MaxDescriptionLength = 5000

// IssueHandlers handles issue report endpoints
type IssueHandlers struct {
	issueRepo *repositories.IssueRepository
}

// NewIssueHandlers creates a new IssueHandlers instance
func NewIssueHandlers(db *sqlx.DB) *IssueHandlers {
	return &IssueHandlers{
		issueRepo: repositories.NewIssueRepository(db),
	}
}

// createIssueRequest is the JSON body for POST /api/issues. Wire names are
// the public API contract.
type createIssueRequest struct {
	IssueType   string  `json:"issueType"`
	Description string  `json:"description"`
	Email       *string `json:"email"`
	BookingID   *string `json:"bookingId"`
	RoomID      *string `json:"roomId"`
}

// @Summary      Report an issue
// @Description  Submit a problem report. Authentication is optional; anonymous reports are accepted.
// @Tags         Issues
// @Accept       json
// @Produce      json
// @Param        body  body  createIssueRequest  true  "Issue details"
// @Success      201  {object}  map[string]interface{}  "id: string"
// @Failure      400  {object}  map[string]interface{}  "Validation error"
// @Router       /api/issues [post]
// CreateIssueHandler accepts an issue report
// POST /api/issues
func (h *IssueHandlers) CreateIssueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createIssueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		req.IssueType = strings.TrimSpace(req.IssueType)
		req.Description = strings.TrimSpace(req.Description)

		if req.IssueType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Issue type is required", "field": "issueType"})
			return
		}
		if req.Description == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required", "field": "description"})
			return
		}
		if len(req.Description) > MaxDescriptionLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Description is too long", "field": "description"})
			return
		}

		issue := &models.Issue{
			IssueType:   req.IssueType,
			Description: req.Description,
			Email:       req.Email,
			BookingID:   req.BookingID,
			RoomID:      req.RoomID,
		}
		// Attribute the report when a session is present; anonymous otherwise.
		if userID := c.GetString("user_id"); userID != "" {
			issue.UserID = &userID
		}

		id, err := h.issueRepo.CreateIssue(c.Request.Context(), issue)
		if err != nil {
			slog.Error("failed to create issue", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		telemetry.IssuesReportedTotal.WithLabelValues(req.IssueType).Inc()
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}
