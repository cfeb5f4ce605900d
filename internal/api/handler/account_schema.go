package handler

// loginRequest binds the sign-in form. ReturnURL may also arrive as the
// returnUrl query parameter, which takes precedence.
type loginRequest struct {
	Username      string `json:"username" form:"username"`
	Password      string `json:"password" form:"password"`
	RememberLogin bool   `json:"remember_login" form:"remember_login"`
	ReturnURL     string `json:"return_url" form:"return_url"`
}

// loginPromptResponse is the login view model rendered when no valid
// session is present or after a failed attempt.
type loginPromptResponse struct {
	AllowRememberLogin bool   `json:"allow_remember_login"`
	EnableLocalLogin   bool   `json:"enable_local_login"`
	Error              string `json:"error,omitempty"`
}

// registerRequest binds the self-service registration form.
type registerRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=100"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// resultMessage carries an operation outcome alongside a view model.
type resultMessage struct {
	ShowMessage bool   `json:"show_message"`
	IsError     bool   `json:"is_error"`
	Message     string `json:"message,omitempty"`
}

// profileResponse is the profile view model.
type profileResponse struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	resultMessage
}

// updateProfileRequest binds the profile form. NewPassword is optional;
// required fields are enforced in the handler so a miss re-renders the form
// rather than producing a generic validation fault.
type updateProfileRequest struct {
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	NewPassword string `json:"new_password" form:"new_password"`
}

// emailAvailableRequest binds the availability probe.
type emailAvailableRequest struct {
	Email string `json:"email" form:"email"`
}

type emailAvailableResponse struct {
	Available bool `json:"available"`
}

// loggedOutResponse is the sign-out confirmation view model.
type loggedOutResponse struct {
	AutomaticRedirectAfterSignOut bool   `json:"automatic_redirect_after_sign_out"`
	PostLogoutRedirectURI         string `json:"post_logout_redirect_uri"`
}
