package service

import (
	"strconv"

	"github.com/optatrack/account-service/internal/core/domain"
)

// BuildClaims assembles the claim set snapshotted into a session.
// It is a pure function of the user record: email, given name and surname
// (possibly empty strings, never dropped), display name with email fallback,
// the stringified user id, one role claim per role, and an is_staff flag
// when the user holds any administrative role.
func BuildClaims(user *domain.User) (domain.ClaimSet, error) {
	if user == nil {
		return nil, domain.ErrNilUser
	}

	claims := domain.ClaimSet{
		{Type: domain.ClaimEmail, Value: user.Email},
		{Type: domain.ClaimGivenName, Value: user.FirstName},
		{Type: domain.ClaimSurname, Value: user.LastName},
		{Type: domain.ClaimDisplayName, Value: user.DisplayName()},
		{Type: domain.ClaimUserID, Value: user.ID},
	}

	staff := false
	for _, r := range user.Roles {
		claims = append(claims, domain.Claim{Type: domain.ClaimRole, Value: r.Name})
		switch r.Name {
		case domain.RoleAdmin, domain.RoleOwner, domain.RoleSuperAdmin:
			staff = true
		}
	}
	claims = append(claims, domain.Claim{Type: domain.ClaimIsStaff, Value: strconv.FormatBool(staff)})

	return claims, nil
}
