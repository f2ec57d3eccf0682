// Package models - user.go defines the User model for booking accounts with email,
// display name, and system-wide role, along with the membership-enriched view used
// by the authorization layer.
package models

import "time"

// System-wide user roles. Role determines booking duration limits and
// access to admin surfaces.
const (
	RoleUser    = "user"
	RoleOfficer = "officer"
	RoleAdmin   = "admin"
)

// User represents a user in the system
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash *string   `json:"-"` // nil for externally-authenticated accounts
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true for accounts with the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserWithMemberships represents a user together with their organization
// memberships, as resolved per-request by the authorization service.
type UserWithMemberships struct {
	User
	Memberships []OrganizationMember `json:"memberships"`
}

// MemberOf returns true if the user holds a membership in the given organization.
func (u *UserWithMemberships) MemberOf(organizationID string) bool {
	for _, m := range u.Memberships {
		if m.OrganizationID == organizationID {
			return true
		}
	}
	return false
}
