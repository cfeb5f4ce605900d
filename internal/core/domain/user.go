package domain

import (
	"errors"
	"strings"
	"time"
)

// Role names are immutable reference data; membership is many-to-many.
const (
	RoleAdmin      = "Admin"
	RoleOwner      = "Owner"
	RoleSuperAdmin = "Super_Admin"
	RoleUser       = "User"
)

// ReferenceRoles returns the built-in role names every store seeds at
// startup. Membership data references these by name.
func ReferenceRoles() []string {
	return []string{RoleAdmin, RoleOwner, RoleSuperAdmin, RoleUser}
}

var ErrNilUser = errors.New("user must not be nil")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyAttempts = errors.New("too many login attempts")

// Role is a named grant shared by many users.
type Role struct {
	Name string `json:"name" bson:"name"`
}

// User models an account holder. The password hash stays inside the
// credential store layer and is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is "First Last" trimmed, falling back to the email address
// when both name parts are blank.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// HasRole reports whether the user currently holds the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
