package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/optatrack/account-service/internal/api/metrics"
	"github.com/optatrack/account-service/internal/core/domain"
	"github.com/optatrack/account-service/internal/core/ports"
)

const (
	defaultLoginDuration  = 2 * time.Hour
	rememberLoginDuration = 30 * 24 * time.Hour
)

// SessionService mints and decodes signed sessions. The encoded artifact is
// written as a cookie by the transport layer; writing a fresh cookie under
// the same name fully supersedes any previous session for that caller.
type SessionService struct {
	codec       ports.SessionCodec
	defaultTTL  time.Duration
	rememberTTL time.Duration
	scheme      string
	logger      zerolog.Logger

	// now is swapped in tests to pin expiry arithmetic.
	now func() time.Time
}

// NewSessionService wires a SessionService. Durations at or below zero fall
// back to the defaults; the remember TTL is forced above the default TTL so
// remember-me always extends a session, never shortens it.
func NewSessionService(codec ports.SessionCodec, defaultTTL, rememberTTL time.Duration, scheme string, logger zerolog.Logger) *SessionService {
	if defaultTTL <= 0 {
		defaultTTL = defaultLoginDuration
	}
	if rememberTTL <= defaultTTL {
		rememberTTL = rememberLoginDuration
	}
	if rememberTTL <= defaultTTL {
		rememberTTL = defaultTTL * 2
	}
	return &SessionService{
		codec:       codec,
		defaultTTL:  defaultTTL,
		rememberTTL: rememberTTL,
		scheme:      scheme,
		logger:      logger,
		now:         time.Now,
	}
}

// Issue wraps the claim set into a signed session. Sessions are always
// persistent; remember only selects the longer expiry.
func (s *SessionService) Issue(claims domain.ClaimSet, remember bool) (*domain.Session, string, error) {
	if !claims.Authenticated() {
		return nil, "", domain.ErrNilUser
	}

	ttl := s.defaultTTL
	if remember {
		ttl = s.rememberTTL
	}

	session := &domain.Session{
		Claims:     claims,
		ExpiresAt:  s.now().UTC().Add(ttl),
		Persistent: true,
		Scheme:     s.scheme,
	}

	token, err := s.codec.Encode(session)
	if err != nil {
		return nil, "", err
	}

	metrics.SessionsIssuedTotal.WithLabelValues(rememberLabel(remember)).Inc()
	s.logger.Debug().
		Str("user_id", claims.UserID()).
		Time("expires_at", session.ExpiresAt).
		Bool("remember", remember).
		Msg("session issued")

	return session, token, nil
}

// Replace revokes the caller's current session and issues a fresh one as a
// single logical operation. Used after profile or password mutation so the
// snapshot reflects the updated record without a second credential check.
func (s *SessionService) Replace(claims domain.ClaimSet, remember bool) (*domain.Session, string, error) {
	metrics.SessionsRevokedTotal.Inc()
	return s.Issue(claims, remember)
}

// Decode verifies a session artifact and rejects anything expired at the
// current instant. Failures come back as errors; callers treat any error as
// an anonymous request.
func (s *SessionService) Decode(token string) (*domain.Session, error) {
	session, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if !session.Valid(s.now().UTC()) {
		return nil, domain.ErrInvalidCredentials
	}
	return session, nil
}

func rememberLabel(remember bool) string {
	if remember {
		return "remember"
	}
	return "default"
}
