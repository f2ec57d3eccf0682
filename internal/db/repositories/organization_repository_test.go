package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/roomreserve/roomreserve/internal/db/models"
)

var orgCols = []string{"id", "name", "slug", "created_at"}
var orgMemberWithUserCols = []string{
	"user_id", "organization_id", "role", "added_at", "email", "name",
}

func sampleOrgRow() *sqlmock.Rows {
	return sqlmock.NewRows(orgCols).
		AddRow("org-1", "Engineering", "engineering", time.Now())
}

func emptyOrgRow() *sqlmock.Rows {
	return sqlmock.NewRows(orgCols)
}

func newOrgRepo(t *testing.T) (*OrganizationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewOrganizationRepository(db), mock
}

// ---------------------------------------------------------------------------
// GetByID / GetBySlug
// ---------------------------------------------------------------------------

func TestGetOrganizationByID_Found(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations.*WHERE id").
		WithArgs("org-1").
		WillReturnRows(sampleOrgRow())

	org, err := repo.GetByID(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org == nil {
		t.Fatal("expected organization, got nil")
	}
	if org.Slug != "engineering" {
		t.Errorf("Slug = %s, want engineering", org.Slug)
	}
}

func TestGetOrganizationByID_NotFound(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations.*WHERE id").
		WithArgs("missing").
		WillReturnRows(emptyOrgRow())

	org, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org != nil {
		t.Errorf("expected nil organization, got %v", org)
	}
}

func TestGetOrganizationBySlug_Found(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations.*WHERE slug").
		WithArgs("engineering").
		WillReturnRows(sampleOrgRow())

	org, err := repo.GetBySlug(context.Background(), "engineering")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org == nil {
		t.Fatal("expected organization, got nil")
	}
}

func TestGetOrganizationBySlug_NotFound(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations.*WHERE slug").
		WithArgs("missing").
		WillReturnRows(emptyOrgRow())

	org, err := repo.GetBySlug(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org != nil {
		t.Errorf("expected nil organization, got %v", org)
	}
}

// ---------------------------------------------------------------------------
// CreateOrganization
// ---------------------------------------------------------------------------

func TestCreateOrganization(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectExec("INSERT INTO organizations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	org := &models.Organization{Name: "Engineering", Slug: "engineering"}
	if err := repo.CreateOrganization(context.Background(), org); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org.ID == "" {
		t.Error("expected generated ID")
	}
}

func TestCreateOrganization_DBError(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectExec("INSERT INTO organizations").
		WillReturnError(errDB)

	err := repo.CreateOrganization(context.Background(), &models.Organization{Name: "Engineering"})
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// List / Count
// ---------------------------------------------------------------------------

func TestListOrganizations(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations.*ORDER BY name").
		WithArgs(20, 0).
		WillReturnRows(sampleOrgRow())

	orgs, err := repo.List(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orgs) != 1 {
		t.Errorf("len(orgs) = %d, want 1", len(orgs))
	}
}

func TestCountOrganizations(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
}

// ---------------------------------------------------------------------------
// UpsertMember
// ---------------------------------------------------------------------------

func TestUpsertMember(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectExec("INSERT INTO organization_members.*ON CONFLICT").
		WithArgs("user-1", "org-1", "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	member := &models.OrganizationMember{
		UserID:         "user-1",
		OrganizationID: "org-1",
		Role:           "admin",
	}
	if err := repo.UpsertMember(context.Background(), member); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertMember_DefaultsRoleToOfficer(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectExec("INSERT INTO organization_members.*ON CONFLICT").
		WithArgs("user-1", "org-1", models.OrgRoleOfficer, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	member := &models.OrganizationMember{
		UserID:         "user-1",
		OrganizationID: "org-1",
	}
	if err := repo.UpsertMember(context.Background(), member); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if member.Role != models.OrgRoleOfficer {
		t.Errorf("Role = %s, want %s", member.Role, models.OrgRoleOfficer)
	}
}

// ---------------------------------------------------------------------------
// RemoveMember
// ---------------------------------------------------------------------------

func TestRemoveMember(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectExec("DELETE FROM organization_members").
		WithArgs("org-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RemoveMember(context.Background(), "org-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// CheckMembership
// ---------------------------------------------------------------------------

func TestCheckMembership_Member(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT role.*FROM organization_members").
		WithArgs("org-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("officer"))

	isMember, role, err := repo.CheckMembership(context.Background(), "org-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isMember {
		t.Error("expected membership")
	}
	if role != "officer" {
		t.Errorf("role = %s, want officer", role)
	}
}

func TestCheckMembership_NotMember(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT role.*FROM organization_members").
		WithArgs("org-1", "user-2").
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	isMember, role, err := repo.CheckMembership(context.Background(), "org-1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isMember {
		t.Error("expected no membership")
	}
	if role != "" {
		t.Errorf("role = %q, want empty", role)
	}
}

// ---------------------------------------------------------------------------
// ListMembersWithUsers
// ---------------------------------------------------------------------------

func TestListMembersWithUsers(t *testing.T) {
	repo, mock := newOrgRepo(t)
	rows := sqlmock.NewRows(orgMemberWithUserCols).
		AddRow("user-1", "org-1", "officer", time.Now(), "alice@example.com", "Alice").
		AddRow("user-2", "org-1", "admin", time.Now(), "bob@example.com", "Bob")
	mock.ExpectQuery("SELECT.*FROM organization_members om.*JOIN users u").
		WithArgs("org-1").
		WillReturnRows(rows)

	members, err := repo.ListMembersWithUsers(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("len(members) = %d, want 2", len(members))
	}
	if members[0].UserEmail != "alice@example.com" {
		t.Errorf("UserEmail = %s, want alice@example.com", members[0].UserEmail)
	}
}

func TestListMembersWithUsers_Empty(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organization_members om.*JOIN users u").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows(orgMemberWithUserCols))

	members, err := repo.ListMembersWithUsers(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if members == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(members) != 0 {
		t.Errorf("len(members) = %d, want 0", len(members))
	}
}

// ---------------------------------------------------------------------------
// GetUserOrganizations
// ---------------------------------------------------------------------------

func TestGetUserOrganizations(t *testing.T) {
	repo, mock := newOrgRepo(t)
	mock.ExpectQuery("SELECT.*FROM organizations o.*JOIN organization_members om").
		WithArgs("user-1").
		WillReturnRows(sampleOrgRow())

	orgs, err := repo.GetUserOrganizations(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orgs) != 1 {
		t.Errorf("len(orgs) = %d, want 1", len(orgs))
	}
}
