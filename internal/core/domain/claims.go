package domain

// Well-known claim types carried inside a session.
const (
	ClaimUserID      = "user_id"
	ClaimEmail       = "email"
	ClaimGivenName   = "given_name"
	ClaimSurname     = "surname"
	ClaimDisplayName = "display_name"
	ClaimRole        = "role"
	ClaimIsStaff     = "is_staff"
)

// Claim is a typed fact about an authenticated identity.
type Claim struct {
	Type  string `json:"t"`
	Value string `json:"v"`
}

// ClaimSet is the full collection of claims composed into one session.
// Duplicate types are permitted (one role claim per role); a given
// (type, value) pair appears at most once per assembly.
type ClaimSet []Claim

// First returns the value of the first claim of the given type.
func (cs ClaimSet) First(claimType string) (string, bool) {
	for _, c := range cs {
		if c.Type == claimType {
			return c.Value, true
		}
	}
	return "", false
}

// Values returns every value held under the given claim type.
func (cs ClaimSet) Values(claimType string) []string {
	var vals []string
	for _, c := range cs {
		if c.Type == claimType {
			vals = append(vals, c.Value)
		}
	}
	return vals
}

// UserID returns the user-id claim, or "" when the set is anonymous.
func (cs ClaimSet) UserID() string {
	id, _ := cs.First(ClaimUserID)
	return id
}

// Authenticated reports whether the set identifies a signed-in user.
// Authentication is defined by the presence of a user-id claim.
func (cs ClaimSet) Authenticated() bool {
	_, ok := cs.First(ClaimUserID)
	return ok
}

// Roles returns the values of all role claims.
func (cs ClaimSet) Roles() []string {
	return cs.Values(ClaimRole)
}
