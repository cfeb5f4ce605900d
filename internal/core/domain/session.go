package domain

import "time"

// Session is the identity snapshot issued at sign-in. Claims mirror the
// user's record at issuance time; role or profile changes do not flow into
// an existing session, they require the orchestrator to replace it.
type Session struct {
	Claims     ClaimSet  `json:"claims"`
	ExpiresAt  time.Time `json:"expires_at"`
	Persistent bool      `json:"persistent"`
	Scheme     string    `json:"scheme"`
}

// Valid reports whether the session is usable at the given instant.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.Claims.Authenticated() && now.Before(s.ExpiresAt)
}
