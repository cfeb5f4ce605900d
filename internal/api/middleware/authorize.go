package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/optatrack/account-service/internal/core/service"
)

// Authorize enforces the named policy on every request before dispatch.
// The evaluator fails closed: unknown policies and anonymous callers deny.
// Anonymous denials carry 401 so clients know to sign in; authenticated
// callers lacking the required role get 403.
func Authorize(evaluator *service.PolicyEvaluator, policyName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if evaluator.Evaluate(claims, policyName) {
				return next(c)
			}

			if !claims.Authenticated() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
