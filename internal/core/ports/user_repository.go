package ports

import (
	"context"

	"github.com/optatrack/account-service/internal/core/domain"
)

// UpdateUserInput carries a profile mutation. The password is changed via a
// separate UpdatePassword call; the two commits are independent.
type UpdateUserInput struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// UpdatePasswordInput carries a password mutation. Hashing is owned by the
// repository implementation; the plaintext never reaches storage.
type UpdatePasswordInput struct {
	UserID      string
	NewPassword string
}

// UserRepository is the credential store consumed by the account service.
// Implementations own password hashing and the uniqueness of email addresses.
type UserRepository interface {
	// CheckPassword reports whether the password matches the stored hash for
	// the username. An unknown username is a plain false, not an error, so
	// callers cannot distinguish it from a wrong password.
	CheckPassword(ctx context.Context, username, password string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// Create persists a new user all-or-nothing; no partial record survives
	// a failure.
	Create(ctx context.Context, user *domain.User, password string) (*domain.User, error)
	Update(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	UpdatePassword(ctx context.Context, input UpdatePasswordInput) (bool, error)
}
