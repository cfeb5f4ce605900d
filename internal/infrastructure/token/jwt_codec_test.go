package token

import (
	"strings"
	"testing"
	"time"

	"github.com/optatrack/account-service/internal/core/domain"
)

func testSession(expiry time.Time) *domain.Session {
	return &domain.Session{
		Claims: domain.ClaimSet{
			{Type: domain.ClaimUserID, Value: "u-1"},
			{Type: domain.ClaimEmail, Value: "a@x.com"},
			{Type: domain.ClaimRole, Value: domain.RoleAdmin},
			{Type: domain.ClaimRole, Value: domain.RoleUser},
		},
		ExpiresAt:  expiry,
		Persistent: true,
		Scheme:     "OptaTrack",
	}
}

func TestJWTCodec_RoundTrip(t *testing.T) {
	codec := NewJWTCodec("secret", "account-service")
	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Second)

	token, err := codec.Encode(testSession(expiry))
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	decoded, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	if decoded.Claims.UserID() != "u-1" {
		t.Fatalf("user_id lost in round trip: %+v", decoded.Claims)
	}
	roles := decoded.Claims.Roles()
	if len(roles) != 2 || roles[0] != domain.RoleAdmin || roles[1] != domain.RoleUser {
		t.Fatalf("duplicate role claims must survive the round trip, got %v", roles)
	}
	if !decoded.Persistent || decoded.Scheme != "OptaTrack" {
		t.Fatalf("session attributes lost: %+v", decoded)
	}
	if !decoded.ExpiresAt.Equal(expiry) {
		t.Fatalf("expiry mismatch: expected %v, got %v", expiry, decoded.ExpiresAt)
	}
}

func TestJWTCodec_RejectsTamperedToken(t *testing.T) {
	codec := NewJWTCodec("secret", "account-service")

	token, err := codec.Encode(testSession(time.Now().UTC().Add(time.Hour)))
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]
	if _, err := codec.Decode(tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestJWTCodec_RejectsWrongSecret(t *testing.T) {
	codec := NewJWTCodec("secret", "account-service")
	other := NewJWTCodec("different", "account-service")

	token, err := codec.Encode(testSession(time.Now().UTC().Add(time.Hour)))
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if _, err := other.Decode(token); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestJWTCodec_RejectsExpiredToken(t *testing.T) {
	codec := NewJWTCodec("secret", "account-service")

	token, err := codec.Encode(testSession(time.Now().UTC().Add(-time.Minute)))
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if _, err := codec.Decode(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}
