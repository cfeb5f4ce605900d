package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/optatrack/account-service/internal/core/domain"
	"github.com/optatrack/account-service/internal/core/service"
	"github.com/optatrack/account-service/internal/infrastructure/token"
)

const testCookieName = "optatrack_session"

func newTestSessions() *service.SessionService {
	codec := token.NewJWTCodec("test-secret", "account-service")
	return service.NewSessionService(codec, time.Hour, 2*time.Hour, "OptaTrack", zerolog.Nop())
}

func issueTestToken(t *testing.T, sessions *service.SessionService) string {
	t.Helper()
	_, tok, err := sessions.Issue(domain.ClaimSet{
		{Type: domain.ClaimUserID, Value: "u-1"},
		{Type: domain.ClaimRole, Value: domain.RoleAdmin},
	}, false)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return tok
}

func TestSession_InjectsClaims(t *testing.T) {
	sessions := newTestSessions()
	tok := issueTestToken(t, sessions)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Session(sessions, testCookieName)
	handler := mw(func(c echo.Context) error {
		claims := Claims(c)
		if claims.UserID() != "u-1" {
			t.Fatalf("expected u-1 claims in context, got %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_MissingCookieIsAnonymous(t *testing.T) {
	sessions := newTestSessions()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Session(sessions, testCookieName)
	handler := mw(func(c echo.Context) error {
		if Claims(c).Authenticated() {
			t.Fatalf("expected anonymous request")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_TamperedCookieIsAnonymous(t *testing.T) {
	sessions := newTestSessions()
	tok := issueTestToken(t, sessions)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok + "junk"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Session(sessions, testCookieName)
	handler := mw(func(c echo.Context) error {
		if Claims(c).Authenticated() {
			t.Fatalf("tampered cookie must not authenticate")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
