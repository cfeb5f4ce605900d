// Package postgres provides the SQL credential store backend.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/optatrack/account-service/internal/core/domain"
	"github.com/optatrack/account-service/internal/core/ports"
)

// uniqueViolation is the postgres error code raised on duplicate emails.
const uniqueViolation = "23505"

// UserRepository is the PostgreSQL credential store. Like the Mongo backend
// it owns password hashing; only bcrypt hashes reach the table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository wraps the connection and ensures the users schema exists.
func NewUserRepository(db *sql.DB) (*UserRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	r := &UserRepository{db: db}
	if err := r.ensureSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *UserRepository) ensureSchema() error {
	const q = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	roles JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`
	if _, err := r.db.Exec(q); err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS roles (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("ensure roles schema: %w", err)
	}
	return nil
}

// EnsureRoles inserts the reference roles, skipping any that already exist.
func (r *UserRepository) EnsureRoles(ctx context.Context) error {
	for _, name := range domain.ReferenceRoles() {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			return fmt.Errorf("ensure role %s: %w", name, err)
		}
	}
	return nil
}

const selectUser = `
SELECT id, email, first_name, last_name, phone, password_hash, roles, created_at, updated_at
FROM users`

func (r *UserRepository) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE email = $1`, username).Scan(&hash)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query password hash: %w", err)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, username))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrNilUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	rolesJSON, err := json.Marshal(roleNames(user.Roles))
	if err != nil {
		return nil, fmt.Errorf("encode roles: %w", err)
	}

	now := time.Now().UTC()
	created := *user
	created.ID = uuid.NewString()
	created.PasswordHash = string(hash)
	created.CreatedAt = now
	created.UpdatedAt = now

	const q = `
INSERT INTO users (id, email, first_name, last_name, phone, password_hash, roles, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, q,
		created.ID, created.Email, created.FirstName, created.LastName, created.Phone,
		created.PasswordHash, rolesJSON, now, now,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (r *UserRepository) Update(ctx context.Context, input ports.UpdateUserInput) (*domain.User, error) {
	const q = `
UPDATE users
SET first_name = $2, last_name = $3, email = $4, phone = $5, updated_at = $6
WHERE id = $1
RETURNING id, email, first_name, last_name, phone, password_hash, roles, created_at, updated_at`
	row := r.db.QueryRowContext(ctx, q,
		input.UserID, input.FirstName, input.LastName, input.Email, input.Phone, time.Now().UTC())

	user, err := r.scanUser(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, input ports.UpdatePasswordInput) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		input.UserID, string(hash), time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var rolesJSON []byte
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone,
		&u.PasswordHash, &rolesJSON, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	var names []string
	if len(rolesJSON) > 0 {
		if err := json.Unmarshal(rolesJSON, &names); err != nil {
			return nil, fmt.Errorf("decode roles: %w", err)
		}
	}
	for _, name := range names {
		u.Roles = append(u.Roles, domain.Role{Name: name})
	}
	return &u, nil
}

func roleNames(roles []domain.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

