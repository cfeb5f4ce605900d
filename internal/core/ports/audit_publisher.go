package ports

import (
	"context"
	"time"
)

// Audit event types emitted by the account service.
const (
	AuditLogin          = "account.login"
	AuditRegistered     = "account.registered"
	AuditProfileUpdated = "account.profile_updated"
	AuditSessionRevoked = "account.session_revoked"
)

// AuditEvent is published to the message broker after account mutations.
// Consumers log, alert or feed analytics without querying the primary store.
type AuditEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Remember   bool      `json:"remember,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditPublisher delivers audit events to interested consumers.
// Publishing is best-effort: failures are logged by the caller, never
// surfaced to the end user.
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}
