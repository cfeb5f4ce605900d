package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/optatrack/account-service/internal/core/domain"
	"github.com/optatrack/account-service/internal/core/service"
)

// claimsKey is the context key under which the decoded claim set is stored.
const claimsKey = "claims"

// Session decodes the session cookie and injects its claim set into the
// request context. A missing, tampered or expired artifact leaves the
// request anonymous; denial is the authorization middleware's job.
func Session(sessions *service.SessionService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			session, err := sessions.Decode(cookie.Value)
			if err != nil {
				return next(c)
			}

			c.Set(claimsKey, session.Claims)
			return next(c)
		}
	}
}

// Claims returns the caller's claim set, or an empty set for anonymous
// requests. Handlers and middleware receive identity through this explicit
// accessor rather than any ambient state.
func Claims(c echo.Context) domain.ClaimSet {
	claims, _ := c.Get(claimsKey).(domain.ClaimSet)
	return claims
}
