package service

import (
	"testing"

	"github.com/optatrack/account-service/internal/core/domain"
)

func TestBuildClaims_NilUser(t *testing.T) {
	if _, err := BuildClaims(nil); err != domain.ErrNilUser {
		t.Fatalf("expected ErrNilUser, got %v", err)
	}
}

func TestBuildClaims_OneUserIDOneRolePerRole(t *testing.T) {
	user := &domain.User{
		ID:        "u-42",
		Email:     "a@x.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Roles:     []domain.Role{{Name: domain.RoleAdmin}, {Name: domain.RoleUser}},
	}

	claims, err := BuildClaims(user)
	if err != nil {
		t.Fatalf("BuildClaims returned error: %v", err)
	}

	ids := claims.Values(domain.ClaimUserID)
	if len(ids) != 1 || ids[0] != "u-42" {
		t.Fatalf("expected exactly one user_id claim u-42, got %v", ids)
	}

	roles := claims.Roles()
	if len(roles) != len(user.Roles) {
		t.Fatalf("expected %d role claims, got %d", len(user.Roles), len(roles))
	}
	for i, want := range []string{domain.RoleAdmin, domain.RoleUser} {
		if roles[i] != want {
			t.Fatalf("role claim %d: expected %s, got %s", i, want, roles[i])
		}
	}
}

func TestBuildClaims_DisplayNameFallsBackToEmail(t *testing.T) {
	user := &domain.User{ID: "u-1", Email: "a@x.com", FirstName: "  ", LastName: " "}

	claims, err := BuildClaims(user)
	if err != nil {
		t.Fatalf("BuildClaims returned error: %v", err)
	}

	name, ok := claims.First(domain.ClaimDisplayName)
	if !ok || name != "a@x.com" {
		t.Fatalf("expected display_name a@x.com, got %q", name)
	}
}

func TestBuildClaims_EmptyNamePartsAreEmptyStrings(t *testing.T) {
	user := &domain.User{ID: "u-1", Email: "a@x.com"}

	claims, err := BuildClaims(user)
	if err != nil {
		t.Fatalf("BuildClaims returned error: %v", err)
	}

	given, ok := claims.First(domain.ClaimGivenName)
	if !ok || given != "" {
		t.Fatalf("expected empty given_name claim present, got ok=%v value=%q", ok, given)
	}
	surname, ok := claims.First(domain.ClaimSurname)
	if !ok || surname != "" {
		t.Fatalf("expected empty surname claim present, got ok=%v value=%q", ok, surname)
	}
}

func TestBuildClaims_StaffFlag(t *testing.T) {
	staff := &domain.User{ID: "u-1", Email: "a@x.com", Roles: []domain.Role{{Name: domain.RoleOwner}}}
	plain := &domain.User{ID: "u-2", Email: "b@x.com", Roles: []domain.Role{{Name: domain.RoleUser}}}

	claims, _ := BuildClaims(staff)
	if v, _ := claims.First(domain.ClaimIsStaff); v != "true" {
		t.Fatalf("expected is_staff true for owner, got %q", v)
	}

	claims, _ = BuildClaims(plain)
	if v, _ := claims.First(domain.ClaimIsStaff); v != "false" {
		t.Fatalf("expected is_staff false for plain user, got %q", v)
	}
}
