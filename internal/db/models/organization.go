// Package models - organization.go defines the Organization model representing a
// group that bookings can be made on behalf of, with a URL-safe slug and display name.
package models

import "time"

// Organization represents an organization in the system
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"` // URL-safe, unique
	CreatedAt time.Time `json:"created_at"`
}
