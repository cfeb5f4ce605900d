package ports

import "github.com/optatrack/account-service/internal/core/domain"

// SessionCodec turns a session into an opaque signed artifact and back.
// The session issuer stays decoupled from the wire format; the default
// implementation signs a JWT over the serialized claim set and expiry.
type SessionCodec interface {
	Encode(session *domain.Session) (string, error)
	// Decode verifies the signature and expiry; an expired or tampered
	// artifact is an error, never a partially trusted session.
	Decode(token string) (*domain.Session, error)
}
