package services

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/roomreserve/roomreserve/internal/db/models"
	"github.com/roomreserve/roomreserve/internal/db/repositories"
)

func newAuthzService(t *testing.T) (*AuthorizationService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAuthorizationService(repositories.NewUserRepository(db)), mock
}

// ---------------------------------------------------------------------------
// RoleDurationLimit
// ---------------------------------------------------------------------------

func TestRoleDurationLimit(t *testing.T) {
	svc := NewAuthorizationService(nil)

	tests := []struct {
		role string
		want int
	}{
		{models.RoleUser, 120},
		{models.RoleOfficer, 180},
		{models.RoleAdmin, 0},
		// Unknown roles get the most restrictive limit
		{"intern", 120},
		{"", 120},
	}

	for _, tt := range tests {
		if got := svc.RoleDurationLimit(tt.role); got != tt.want {
			t.Errorf("RoleDurationLimit(%q) = %d, want %d", tt.role, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// CanManage
// ---------------------------------------------------------------------------

func TestCanManage(t *testing.T) {
	svc := NewAuthorizationService(nil)

	owner := &models.UserWithMemberships{User: models.User{ID: "user-1", Role: models.RoleUser}}
	other := &models.UserWithMemberships{User: models.User{ID: "user-2", Role: models.RoleOfficer}}
	admin := &models.UserWithMemberships{User: models.User{ID: "admin-1", Role: models.RoleAdmin}}

	if !svc.CanManage("user-1", owner) {
		t.Error("owner should manage their own resource")
	}
	if svc.CanManage("user-1", other) {
		t.Error("non-owner non-admin should not manage")
	}
	if !svc.CanManage("user-1", admin) {
		t.Error("admin should manage any resource")
	}
	if svc.CanManage("user-1", nil) {
		t.Error("nil actor should not manage")
	}
}

// ---------------------------------------------------------------------------
// ResolveActor
// ---------------------------------------------------------------------------

func TestResolveActor_Found(t *testing.T) {
	svc, mock := newAuthzService(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("user-1", "alice@example.com", "Alice", "officer", nil, "local", time.Now(), time.Now()))
	mock.ExpectQuery("SELECT.*FROM organization_members.*WHERE user_id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(membershipCols).
			AddRow("user-1", "org-1", "officer", time.Now()))

	actor, err := svc.ResolveActor(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.Role != "officer" {
		t.Errorf("Role = %s, want officer", actor.Role)
	}
	if !actor.MemberOf("org-1") {
		t.Error("expected membership in org-1")
	}
}

func TestResolveActor_NotFound(t *testing.T) {
	svc, mock := newAuthzService(t)
	mock.ExpectQuery("SELECT.*FROM users.*WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := svc.ResolveActor(context.Background(), "missing")
	assertServiceError(t, err, KindNotFound, "User not found")
}
