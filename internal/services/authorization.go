// authorization.go implements AuthorizationService, pure read-and-decide
// permission checks: actor resolution, admin/ownership checks, and the
// role-based booking duration limits.
package services

import (
	"context"

	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
)

// Booking duration limits in minutes per system role. Zero means unlimited.
const (
	UserDurationLimit    = 120
	OfficerDurationLimit = 180
)

// AuthorizationService resolves a user's role and memberships and answers
// yes/no permission questions. It holds no state between calls.
type AuthorizationService struct {
	userRepo *repositories.UserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo *repositories.UserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// ResolveActor loads the acting user together with their organization
// memberships. Returns a NotFound error when the id does not resolve.
func (s *AuthorizationService) ResolveActor(ctx context.Context, userID string) (*models.UserWithMemberships, error) {
	actor, err := s.userRepo.GetUserWithMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, NewNotFoundError("User not found")
	}
	return actor, nil
}

// CanManage returns true if the actor is an admin or owns the resource.
func (s *AuthorizationService) CanManage(resourceOwnerID string, actor *models.UserWithMemberships) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == resourceOwnerID
}

// RoleDurationLimit returns the maximum booking duration in minutes for a
// system role. Zero means unlimited (admin).
func (s *AuthorizationService) RoleDurationLimit(role string) int {
	switch role {
	case models.RoleOfficer:
		return OfficerDurationLimit
	case models.RoleAdmin:
		return 0
	default:
		return UserDurationLimit
	}
}
