// Package models - issue.go defines the Issue model for user-reported problems,
// submitted anonymously or by an authenticated user and never mutated after creation.
package models

import "time"

// Issue represents a reported problem, optionally tied to a booking or room.
type Issue struct {
	ID          string    `json:"id" db:"id"`
	UserID      *string   `json:"user_id,omitempty" db:"user_id"` // nil for anonymous reports
	Email       *string   `json:"email,omitempty" db:"email"`
	IssueType   string    `json:"issue_type" db:"issue_type"`
	Description string    `json:"description" db:"description"`
	BookingID   *string   `json:"booking_id,omitempty" db:"booking_id"`
	RoomID      *string   `json:"room_id,omitempty" db:"room_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
