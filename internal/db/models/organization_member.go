// Package models - organization_member.go defines the OrganizationMember model
// linking users to organizations with a per-organization role, plus the
// user-enriched view returned by the member listing endpoints.
package models

import "time"

// Organization-scoped member roles.
const (
	OrgRoleOwner   = "owner"
	OrgRoleOfficer = "officer"
	OrgRoleMember  = "member"
)

// OrganizationMember represents a user's membership in an organization.
// The (UserID, OrganizationID) pair is the natural key; adding an existing
// member again updates the role in place.
type OrganizationMember struct {
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Role           string    `json:"role"`
	AddedAt        time.Time `json:"added_at"`
}

// OrganizationMemberWithUser is a membership joined with the member's
// user record, for admin member listings.
type OrganizationMemberWithUser struct {
	OrganizationMember
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
}
