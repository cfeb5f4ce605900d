// Package token implements the session codec as an HMAC-signed JWT carrying
// the serialized claim set and expiry.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/optatrack/account-service/internal/core/domain"
)

// sessionClaims is the only supported token shape. The claim set rides in a
// custom field so duplicate claim types (one per role) survive the round trip.
type sessionClaims struct {
	jwt.RegisteredClaims

	Claims     domain.ClaimSet `json:"claims"`
	Persistent bool            `json:"persistent"`
	Scheme     string          `json:"scheme"`
}

// JWTCodec signs and verifies session artifacts with HS256.
type JWTCodec struct {
	secret []byte
	issuer string
}

func NewJWTCodec(secret, issuer string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret), issuer: issuer}
}

// Encode serializes the session into a signed compact JWT.
func (c *JWTCodec) Encode(session *domain.Session) (string, error) {
	if session == nil {
		return "", domain.ErrNilUser
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   session.Claims.UserID(),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		},
		Claims:     session.Claims,
		Persistent: session.Persistent,
		Scheme:     session.Scheme,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry and rebuilds the session.
// Tampered, mis-signed or expired artifacts come back as errors.
func (c *JWTCodec) Decode(token string) (*domain.Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	return &domain.Session{
		Claims:     claims.Claims,
		ExpiresAt:  expires,
		Persistent: claims.Persistent,
		Scheme:     claims.Scheme,
	}, nil
}
