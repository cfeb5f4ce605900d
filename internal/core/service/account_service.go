package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optatrack/account-service/internal/api/metrics"
	"github.com/optatrack/account-service/internal/core/domain"
	"github.com/optatrack/account-service/internal/core/ports"
)

const maxEmailLength = 100

// emailPattern mirrors the comprehensive address format used by the
// availability check; anything it rejects is reported unavailable without a
// store lookup.
var emailPattern = regexp.MustCompile(`^[\w!#$%&'*+\-/=?^_` + "`" + `{|}~]+(\.[\w!#$%&'*+\-/=?^_` + "`" + `{|}~]+)*@((([\-\w]+\.)+[a-zA-Z]{2,15})|(([0-9]{1,3}\.){3}[0-9]{1,3}))$`)

// AccountService sequences credential checks, claim assembly and session
// issuance. Each call is an independent unit of work: at most one repository
// decision call, one claim assembly and one session issuance per flow.
type AccountService struct {
	repo     ports.UserRepository
	sessions *SessionService
	throttle ports.LoginThrottle
	audit    ports.AuditPublisher
	logger   zerolog.Logger
}

// NewAccountService wires the orchestrator. throttle and audit are optional;
// nil disables the corresponding behaviour.
func NewAccountService(repo ports.UserRepository, sessions *SessionService, throttle ports.LoginThrottle, audit ports.AuditPublisher, logger zerolog.Logger) *AccountService {
	return &AccountService{
		repo:     repo,
		sessions: sessions,
		throttle: throttle,
		audit:    audit,
		logger:   logger,
	}
}

// Login checks credentials and issues a session. A missing field, an unknown
// username and a wrong password all collapse into ErrInvalidCredentials so
// callers cannot enumerate accounts.
func (s *AccountService) Login(ctx context.Context, input ports.LoginInput) (*ports.SessionGrant, error) {
	if input.Username == "" || input.Password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if blocked := s.throttled(ctx, input.ClientKey); blocked {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return nil, domain.ErrTooManyAttempts
	}

	ok, err := s.repo.CheckPassword(ctx, input.Username, input.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if !ok {
		s.recordFailure(ctx, input.ClientKey)
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	grant, err := s.grant(user, input.Remember, false)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	s.resetThrottle(ctx, input.ClientKey)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.publish(ctx, ports.AuditLogin, user, input.Remember)
	return grant, nil
}

// Register creates the account and signs the new user in with the default
// session lifetime. Creation is all-or-nothing inside the repository; any
// failure leaves no partial record and no session.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.SessionGrant, error) {
	if input.Password == "" || !isValidEmailFormat(input.Email) {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.Create(ctx, &domain.User{
		Email: input.Email,
		Roles: []domain.Role{{Name: domain.RoleUser}},
	}, input.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	grant, err := s.grant(user, false, false)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.publish(ctx, ports.AuditRegistered, user, false)
	return grant, nil
}

// GetProfile fetches the caller's current record.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies the profile mutation and, when a new password was
// supplied, the password mutation as a second independent commit. A password
// failure does not roll back the profile change; it is logged and the flow
// continues. The caller's session is always replaced from the updated record.
func (s *AccountService) UpdateProfile(ctx context.Context, input ports.UpdateProfileInput) (*ports.SessionGrant, error) {
	if isBlank(input.FirstName) || isBlank(input.LastName) || isBlank(input.Email) {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.Update(ctx, ports.UpdateUserInput{
		UserID:    input.UserID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
	})
	if err != nil {
		return nil, err
	}

	if input.NewPassword != "" {
		ok, err := s.repo.UpdatePassword(ctx, ports.UpdatePasswordInput{
			UserID:      user.ID,
			NewPassword: input.NewPassword,
		})
		if err != nil || !ok {
			// Profile change is already committed; the two writes are
			// deliberately not coupled in a transaction.
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("password update failed after profile update")
		}
	}

	grant, err := s.grant(user, false, true)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ports.AuditProfileUpdated, user, false)
	return grant, nil
}

// CheckEmailAvailable reports whether the address can be claimed by the
// caller. Malformed addresses are unavailable without touching the store;
// an address owned by the caller themself counts as available.
func (s *AccountService) CheckEmailAvailable(ctx context.Context, email, callerID string) (bool, error) {
	if !isValidEmailFormat(email) {
		return false, nil
	}

	owner, err := s.repo.GetByUsername(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return true, nil
		}
		return false, err
	}
	return owner.ID == callerID, nil
}

// grant assembles claims and issues (or replaces) a session for the user.
func (s *AccountService) grant(user *domain.User, remember, replace bool) (*ports.SessionGrant, error) {
	claims, err := BuildClaims(user)
	if err != nil {
		return nil, err
	}

	issue := s.sessions.Issue
	if replace {
		issue = s.sessions.Replace
	}
	session, token, err := issue(claims, remember)
	if err != nil {
		return nil, err
	}

	return &ports.SessionGrant{Session: session, Token: token, User: user}, nil
}

func (s *AccountService) throttled(ctx context.Context, key string) bool {
	if s.throttle == nil || key == "" {
		return false
	}
	blocked, err := s.throttle.Blocked(ctx, key)
	if err != nil {
		// Throttle outages fail open; credential checks still gate access.
		s.logger.Warn().Err(err).Msg("login throttle check failed")
		return false
	}
	return blocked
}

func (s *AccountService) recordFailure(ctx context.Context, key string) {
	if s.throttle == nil || key == "" {
		return
	}
	if err := s.throttle.RecordFailure(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle record failed")
	}
}

func (s *AccountService) resetThrottle(ctx context.Context, key string) {
	if s.throttle == nil || key == "" {
		return
	}
	if err := s.throttle.Reset(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle reset failed")
	}
}

func (s *AccountService) publish(ctx context.Context, eventType string, user *domain.User, remember bool) {
	if s.audit == nil {
		return
	}
	event := ports.AuditEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     user.ID,
		Email:      user.Email,
		Remember:   remember,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.audit.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("event_type", eventType).Msg("audit publish failed")
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isValidEmailFormat(email string) bool {
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	return emailPattern.MatchString(email)
}
