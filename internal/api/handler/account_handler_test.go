package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/optatrack/account-service/internal/core/domain"
	"github.com/optatrack/account-service/internal/core/ports"
)

type stubAccounts struct {
	grant *ports.SessionGrant
	err   error

	loginCalls    int
	registerCalls int
	updateCalls   int

	available bool
}

func (s *stubAccounts) Login(context.Context, ports.LoginInput) (*ports.SessionGrant, error) {
	s.loginCalls++
	return s.grant, s.err
}

func (s *stubAccounts) Register(context.Context, ports.RegisterInput) (*ports.SessionGrant, error) {
	s.registerCalls++
	return s.grant, s.err
}

func (s *stubAccounts) GetProfile(context.Context, string) (*domain.User, error) {
	if s.grant == nil {
		return nil, domain.ErrUserNotFound
	}
	return s.grant.User, nil
}

func (s *stubAccounts) UpdateProfile(context.Context, ports.UpdateProfileInput) (*ports.SessionGrant, error) {
	s.updateCalls++
	return s.grant, s.err
}

func (s *stubAccounts) CheckEmailAvailable(context.Context, string, string) (bool, error) {
	return s.available, nil
}

func testGrant() *ports.SessionGrant {
	user := &domain.User{ID: "u-1", Email: "a@x.com", FirstName: "Ada", LastName: "Lovelace"}
	claims := domain.ClaimSet{
		{Type: domain.ClaimUserID, Value: "u-1"},
		{Type: domain.ClaimEmail, Value: "a@x.com"},
	}
	return &ports.SessionGrant{
		Session: &domain.Session{
			Claims:     claims,
			ExpiresAt:  time.Now().UTC().Add(time.Hour),
			Persistent: true,
			Scheme:     "OptaTrack",
		},
		Token: "signed-token",
		User:  user,
	}
}

func testOptions() AccountOptions {
	return AccountOptions{
		Cookie:                         CookieOptions{Name: "optatrack_session"},
		InvalidCredentialsErrorMessage: "Invalid username or password",
		DefaultPostSignInRedirectURL:   "/",
		SignOutRedirectURL:             "/account/login",
		AutomaticRedirectAfterSignOut:  true,
	}
}

func newHandlerContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context) {
	c.Set("claims", domain.ClaimSet{{Type: domain.ClaimUserID, Value: "u-1"}})
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestLoginPage_Anonymous(t *testing.T) {
	h := NewAccountHandler(&stubAccounts{}, testOptions())
	c, rec := newHandlerContext(http.MethodGet, "/account/login", "")

	if err := h.LoginPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"allow_remember_login":true`) {
		t.Fatalf("expected login view model, got %s", rec.Body.String())
	}
}

func TestLoginPage_AuthenticatedRedirects(t *testing.T) {
	h := NewAccountHandler(&stubAccounts{}, testOptions())

	c, rec := newHandlerContext(http.MethodGet, "/account/login", "")
	authenticate(c)
	if err := h.LoginPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to /, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	c, rec = newHandlerContext(http.MethodGet, "/account/login?returnUrl=/deep/link", "")
	authenticate(c)
	if err := h.LoginPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(echo.HeaderLocation) != "/deep/link" {
		t.Fatalf("explicit return target must win, got %s", rec.Header().Get(echo.HeaderLocation))
	}
}

func TestLogin_SuccessSetsCookieAndRedirects(t *testing.T) {
	accounts := &stubAccounts{grant: testGrant()}
	h := NewAccountHandler(accounts, testOptions())
	c, rec := newHandlerContext(http.MethodPost, "/account/login",
		`{"username":"a@x.com","password":"correct"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to default landing page, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	ck := sessionCookie(rec, "optatrack_session")
	if ck == nil || ck.Value != "signed-token" {
		t.Fatalf("expected session cookie with issued token, got %+v", ck)
	}
	if !ck.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if accounts.loginCalls != 1 {
		t.Fatalf("expected exactly one Login call, got %d", accounts.loginCalls)
	}
}

func TestLogin_InvalidCredentialsGenericMessage(t *testing.T) {
	accounts := &stubAccounts{err: domain.ErrInvalidCredentials}
	h := NewAccountHandler(accounts, testOptions())
	c, rec := newHandlerContext(http.MethodPost, "/account/login",
		`{"username":"a@x.com","password":"wrong"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid username or password") {
		t.Fatalf("expected generic message, got %s", rec.Body.String())
	}
	if sessionCookie(rec, "optatrack_session") != nil {
		t.Fatalf("no session cookie may be written on failure")
	}
}

func TestLogin_Throttled(t *testing.T) {
	h := NewAccountHandler(&stubAccounts{err: domain.ErrTooManyAttempts}, testOptions())
	c, rec := newHandlerContext(http.MethodPost, "/account/login",
		`{"username":"a@x.com","password":"correct"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestLogout_ClearsCookieIdempotently(t *testing.T) {
	h := NewAccountHandler(&stubAccounts{}, testOptions())

	for i := 0; i < 2; i++ {
		c, rec := newHandlerContext(http.MethodGet, "/account/logout", "")
		if err := h.Logout(c); err != nil {
			t.Fatalf("handler error on call %d: %v", i+1, err)
		}
		if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/account/logged-out" {
			t.Fatalf("expected redirect to logged-out, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
		}
		ck := sessionCookie(rec, "optatrack_session")
		if ck == nil || ck.Value != "" || ck.MaxAge >= 0 {
			t.Fatalf("expected cleared session cookie on call %d, got %+v", i+1, ck)
		}
	}
}

func TestLoggedOut_Anonymous(t *testing.T) {
	h := NewAccountHandler(&stubAccounts{}, testOptions())
	c, rec := newHandlerContext(http.MethodGet, "/account/logged-out", "")

	if err := h.LoggedOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"automatic_redirect_after_sign_out":true`) ||
		!strings.Contains(body, `"post_logout_redirect_uri":"/account/login"`) {
		t.Fatalf("unexpected logged-out view model: %s", body)
	}
}

func TestLoggedOut_StillAuthenticatedForcesLogout(t *testing.T) {
	h := NewAccountHandler(&stubAccounts{}, testOptions())
	c, rec := newHandlerContext(http.MethodGet, "/account/logged-out", "")
	authenticate(c)

	if err := h.LoggedOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/account/logout" {
		t.Fatalf("expected forced logout redirect, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRegister_SuccessSignsIn(t *testing.T) {
	accounts := &stubAccounts{grant: testGrant()}
	h := NewAccountHandler(accounts, testOptions())
	c, rec := newHandlerContext(http.MethodPost, "/account/register",
		`{"email":"new@x.com","password":"s3cret99"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/account/profile" {
		t.Fatalf("expected redirect to profile, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if sessionCookie(rec, "optatrack_session") == nil {
		t.Fatalf("registration must sign the user in")
	}
}

func TestRegister_HonorsReturnURL(t *testing.T) {
	accounts := &stubAccounts{grant: testGrant()}
	h := NewAccountHandler(accounts, testOptions())
	c, rec := newHandlerContext(http.MethodPost, "/account/register?returnUrl=/welcome",
		`{"email":"new@x.com","password":"s3cret99"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(echo.HeaderLocation) != "/welcome" {
		t.Fatalf("explicit return target must win, got %s", rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRegister_InvalidEmailRejectedBeforeService(t *testing.T) {
	accounts := &stubAccounts{grant: testGrant()}
	h := NewAccountHandler(accounts, testOptions())
	c, _ := newHandlerContext(http.MethodPost, "/account/register",
		`{"email":"not-an-email","password":"s3cret99"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if accounts.registerCalls != 0 {
		t.Fatalf("invalid payload must not reach the service")
	}
}

func TestUpdateProfile_RequiredFieldsRerender(t *testing.T) {
	accounts := &stubAccounts{grant: testGrant()}
	h := NewAccountHandler(accounts, testOptions())
	c, rec := newHandlerContext(http.MethodPost, "/account/profile",
		`{"first_name":"","last_name":"Lovelace","email":"a@x.com"}`)
	authenticate(c)

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"is_error":true`) {
		t.Fatalf("expected error view model, got %s", rec.Body.String())
	}
	if accounts.updateCalls != 0 {
		t.Fatalf("invalid input must not reach the service")
	}
}

func TestUpdateProfile_SuccessReplacesSession(t *testing.T) {
	accounts := &stubAccounts{grant: testGrant()}
	h := NewAccountHandler(accounts, testOptions())
	c, rec := newHandlerContext(http.MethodPost, "/account/profile",
		`{"first_name":"Ada","last_name":"Lovelace","email":"a@x.com"}`)
	authenticate(c)

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Profile Updated Successfully") {
		t.Fatalf("expected success message, got %s", rec.Body.String())
	}
	if sessionCookie(rec, "optatrack_session") == nil {
		t.Fatalf("profile update must write a replacement session cookie")
	}
	if accounts.updateCalls != 1 {
		t.Fatalf("expected exactly one UpdateProfile call, got %d", accounts.updateCalls)
	}
}

func TestCheckEmailAvailable(t *testing.T) {
	h := NewAccountHandler(&stubAccounts{available: true}, testOptions())
	c, rec := newHandlerContext(http.MethodPost, "/account/email-available",
		`{"email":"free@x.com"}`)

	if err := h.CheckEmailAvailable(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"available":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
