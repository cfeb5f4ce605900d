package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieOptions controls how the session artifact is persisted on the client.
type CookieOptions struct {
	Name   string
	Secure bool
}

// writeSessionCookie replaces the caller's session artifact. Writing under
// the same name fully supersedes any previous session for this client.
func writeSessionCookie(c echo.Context, opts CookieOptions, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     opts.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   opts.Secure,
		Expires:  expires,
	})
}

// clearSessionCookie revokes the session artifact. Idempotent: clearing an
// absent or already-cleared cookie leaves the same end state.
func clearSessionCookie(c echo.Context, opts CookieOptions) {
	c.SetCookie(&http.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   opts.Secure,
		MaxAge:   -1,
	})
}
