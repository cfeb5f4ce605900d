package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/optatrack/account-service/internal/api/middleware"
)

// ctxUserID extracts the caller's user id from the claims injected by the
// session middleware. Protected handlers call this after the authorization
// middleware has already allowed the request; an empty id here means the
// route was mounted without the policy chain and is rejected outright.
func ctxUserID(c echo.Context) (string, error) {
	id := middleware.Claims(c).UserID()
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
