// issue_repository.go implements IssueRepository, providing database queries for
// issue report intake and the admin issue listing.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roomreserve/roomreserve/internal/db/models"
)

// IssueRepository handles database operations for issue reports
type IssueRepository struct {
	db *sqlx.DB
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *sqlx.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// CreateIssue stores a new issue report and returns its id
func (r *IssueRepository) CreateIssue(ctx context.Context, issue *models.Issue) (string, error) {
	issue.ID = uuid.New().String()
	issue.CreatedAt = time.Now()

	query := `
		INSERT INTO issues (id, user_id, email, issue_type, description, booking_id, room_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		issue.ID, issue.UserID, issue.Email, issue.IssueType,
		issue.Description, issue.BookingID, issue.RoomID, issue.CreatedAt,
	)
	if err != nil {
		return "", err
	}

	return issue.ID, nil
}

// GetIssueByID retrieves an issue by ID
func (r *IssueRepository) GetIssueByID(ctx context.Context, id string) (*models.Issue, error) {
	var issue models.Issue
	query := `SELECT * FROM issues WHERE id = $1`
	err := r.db.GetContext(ctx, &issue, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListIssues retrieves issue reports, newest first
func (r *IssueRepository) ListIssues(ctx context.Context, limit, offset int) ([]*models.Issue, error) {
	var issues []*models.Issue
	query := `SELECT * FROM issues ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &issues, query, limit, offset)
	if err != nil {
		return nil, err
	}
	if issues == nil {
		issues = []*models.Issue{}
	}
	return issues, nil
}
