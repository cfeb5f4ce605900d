package ports

import (
	"context"

	"github.com/optatrack/account-service/internal/core/domain"
)

// LoginInput carries a credential check request. ClientKey identifies the
// calling client (normally its IP) for failed-attempt throttling.
type LoginInput struct {
	Username  string
	Password  string
	Remember  bool
	ClientKey string
}

// RegisterInput carries a self-service registration request.
type RegisterInput struct {
	Email    string
	Password string
}

// UpdateProfileInput carries a profile mutation from the signed-in user.
// NewPassword is optional; when empty the password is left untouched.
type UpdateProfileInput struct {
	UserID      string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	NewPassword string
}

// SessionGrant is the product of a successful sign-in: the issued session
// plus its encoded artifact ready to be written as a cookie.
type SessionGrant struct {
	Session *domain.Session
	Token   string
	User    *domain.User
}

// AccountService orchestrates credential checks, claim assembly and session
// issuance for sign-in, registration and profile maintenance.
type AccountService interface {
	Login(ctx context.Context, input LoginInput) (*SessionGrant, error)
	Register(ctx context.Context, input RegisterInput) (*SessionGrant, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile applies the mutation and re-issues the caller's session
	// from the updated record so its claims stay a faithful snapshot.
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*SessionGrant, error)
	// CheckEmailAvailable reports whether the email can be taken by the
	// caller. callerID may be empty for anonymous checks.
	CheckEmailAvailable(ctx context.Context, email, callerID string) (bool, error)
}
