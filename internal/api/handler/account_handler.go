package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/optatrack/account-service/internal/api/metrics"
	"github.com/optatrack/account-service/internal/api/middleware"
	"github.com/optatrack/account-service/internal/core/domain"
	"github.com/optatrack/account-service/internal/core/ports"
)

// AccountOptions carries the configured redirect targets and messages used
// by the account flows.
type AccountOptions struct {
	Cookie                         CookieOptions
	InvalidCredentialsErrorMessage string
	DefaultPostSignInRedirectURL   string
	SignOutRedirectURL             string
	AutomaticRedirectAfterSignOut  bool
}

type AccountHandler struct {
	accounts ports.AccountService
	opts     AccountOptions
}

func NewAccountHandler(accounts ports.AccountService, opts AccountOptions) *AccountHandler {
	return &AccountHandler{accounts: accounts, opts: opts}
}

// LoginPage renders the sign-in prompt, or redirects callers that already
// hold a valid session.
//
// @Summary      Sign-in prompt
// @Tags         account
// @Produce      json
// @Param        returnUrl  query     string  false  "Post sign-in redirect target"
// @Success      200  {object}  loginPromptResponse
// @Router       /account/login [get]
func (h *AccountHandler) LoginPage(c echo.Context) error {
	if middleware.Claims(c).Authenticated() {
		return c.Redirect(http.StatusFound, h.postSignInTarget(c.QueryParam("returnUrl")))
	}
	return c.JSON(http.StatusOK, loginPromptResponse{AllowRememberLogin: true, EnableLocalLogin: true})
}

// Login checks credentials and issues a session cookie.
//
// @Summary      Sign in
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      302
// @Failure      401  {object}  loginPromptResponse
// @Failure      429  {object}  loginPromptResponse
// @Router       /account/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.loginPrompt(c, http.StatusUnauthorized)
	}

	grant, err := h.accounts.Login(c.Request().Context(), ports.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		Remember:  req.RememberLogin,
		ClientKey: c.RealIP(),
	})
	if err != nil {
		// Malformed input, unknown username and wrong password all render
		// the same generic message so accounts cannot be enumerated.
		if errors.Is(err, domain.ErrTooManyAttempts) {
			return h.loginPrompt(c, http.StatusTooManyRequests)
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return h.loginPrompt(c, http.StatusUnauthorized)
		}
		return err
	}

	writeSessionCookie(c, h.opts.Cookie, grant.Token, grant.Session.ExpiresAt)

	target := req.ReturnURL
	if qs := c.QueryParam("returnUrl"); qs != "" {
		target = qs
	}
	return c.Redirect(http.StatusFound, h.postSignInTarget(target))
}

// Logout unconditionally destroys the current session.
//
// @Summary      Sign out
// @Tags         account
// @Success      302
// @Router       /account/logout [get]
func (h *AccountHandler) Logout(c echo.Context) error {
	clearSessionCookie(c, h.opts.Cookie)
	metrics.SessionsRevokedTotal.Inc()
	return c.Redirect(http.StatusFound, "/account/logged-out")
}

// LoggedOut renders the sign-out confirmation. A caller that somehow still
// holds a valid session is forced through logout again.
//
// @Summary      Sign-out confirmation
// @Tags         account
// @Produce      json
// @Success      200  {object}  loggedOutResponse
// @Router       /account/logged-out [get]
func (h *AccountHandler) LoggedOut(c echo.Context) error {
	if middleware.Claims(c).Authenticated() {
		return c.Redirect(http.StatusFound, "/account/logout")
	}
	return c.JSON(http.StatusOK, loggedOutResponse{
		AutomaticRedirectAfterSignOut: h.opts.AutomaticRedirectAfterSignOut,
		PostLogoutRedirectURI:         h.opts.SignOutRedirectURL,
	})
}

// Register creates an account and signs the new user straight in.
//
// @Summary      Register a new account
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /account/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	grant, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	writeSessionCookie(c, h.opts.Cookie, grant.Token, grant.Session.ExpiresAt)

	target := "/account/profile"
	if qs := c.QueryParam("returnUrl"); qs != "" {
		target = qs
	}
	return c.Redirect(http.StatusFound, target)
}

// Profile renders the caller's current record.
//
// @Summary      Current profile
// @Tags         account
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /account/profile [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileView(user, resultMessage{}))
}

// UpdateProfile applies a profile (and optionally password) mutation, then
// replaces the caller's session so its claims reflect the updated record.
//
// @Summary      Update profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200  {object}  profileResponse
// @Failure      400  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /account/profile [post]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, profileResponse{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			resultMessage: resultMessage{
				ShowMessage: true,
				IsError:     true,
				Message:     "first name, last name and email are required",
			},
		})
	}

	grant, err := h.accounts.UpdateProfile(c.Request().Context(), ports.UpdateProfileInput{
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}

	writeSessionCookie(c, h.opts.Cookie, grant.Token, grant.Session.ExpiresAt)
	return c.JSON(http.StatusOK, profileView(grant.User, resultMessage{
		ShowMessage: true,
		Message:     "Profile Updated Successfully",
	}))
}

// CheckEmailAvailable reports whether an email address can be claimed by
// the caller. Read-only; never touches the session.
//
// @Summary      Email availability probe
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      emailAvailableRequest  true  "Email to probe"
// @Success      200  {object}  emailAvailableResponse
// @Router       /account/email-available [post]
func (h *AccountHandler) CheckEmailAvailable(c echo.Context) error {
	var req emailAvailableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	available, err := h.accounts.CheckEmailAvailable(c.Request().Context(), req.Email, middleware.Claims(c).UserID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emailAvailableResponse{Available: available})
}

// GetUser looks up any account by id. Admin policy only.
//
// @Summary      Look up a user
// @Tags         account
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /account/users/{id} [get]
func (h *AccountHandler) GetUser(c echo.Context) error {
	user, err := h.accounts.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) loginPrompt(c echo.Context, status int) error {
	return c.JSON(status, loginPromptResponse{
		AllowRememberLogin: true,
		EnableLocalLogin:   true,
		Error:              h.opts.InvalidCredentialsErrorMessage,
	})
}

func (h *AccountHandler) postSignInTarget(returnURL string) string {
	if returnURL != "" {
		return returnURL
	}
	return h.opts.DefaultPostSignInRedirectURL
}

func profileView(user *domain.User, msg resultMessage) profileResponse {
	return profileResponse{
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Phone:         user.Phone,
		resultMessage: msg,
	}
}
