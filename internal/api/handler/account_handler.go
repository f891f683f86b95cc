package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authuser/accounts/internal/api/metrics"
	"github.com/authuser/accounts/internal/api/middleware"
	"github.com/authuser/accounts/internal/core/domain"
	"github.com/authuser/accounts/internal/core/ports"
)

const (
	// ExternalCookieName holds state for an in-flight external login.
	ExternalCookieName = "authuser.external"

	invalidLoginMessage = "Invalid login attempt."
)

type AccountHandler struct {
	accounts ports.AccountService
	sessions ports.SessionService
	events   ports.EventPublisher
	cookie   middleware.SessionCookie
	log      zerolog.Logger
}

func NewAccountHandler(
	accounts ports.AccountService,
	sessions ports.SessionService,
	events ports.EventPublisher,
	cookie middleware.SessionCookie,
	log zerolog.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		sessions: sessions,
		events:   events,
		cookie:   cookie,
		log:      log,
	}
}

// ShowRegister renders the empty registration form.
//
// @Summary      Registration form
// @Tags         account
// @Produce      html
// @Param        returnUrl  query  string  false  "Local URL to return to after registering"
// @Success      200
// @Router       /account/register [get]
func (h *AccountHandler) ShowRegister(c echo.Context) error {
	return c.Render(http.StatusOK, "register", newPage(c, "Register"))
}

// Register creates an account and signs it in. The very first account gets
// the admin role, every later one normal.
//
// @Summary      Register a new user
// @Tags         account
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        Email            formData  string  true   "Email"
// @Param        Password         formData  string  true   "Password"
// @Param        ConfirmPassword  formData  string  true   "Password confirmation"
// @Param        returnUrl        formData  string  false  "Local URL to return to"
// @Param        _csrf            formData  string  true   "Anti-forgery token"
// @Success      303
// @Failure      403  {object}  map[string]string
// @Failure      422
// @Router       /account/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var form RegisterForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	page := newPage(c, "Register")
	page.Email = form.Email
	if redisplay, err := h.validate(c, &form, page); redisplay {
		return c.Render(http.StatusUnprocessableEntity, "register", page)
	} else if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.accounts.Register(ctx, form.Email, form.Password)
	if err != nil {
		if addIdentityErrors(err, page) {
			return c.Render(http.StatusUnprocessableEntity, "register", page)
		}
		return err
	}
	role := primaryRole(user)
	metrics.RegistrationsTotal.WithLabelValues(role).Inc()

	ev := newEvent(c, domain.EventRegistered, user.Email)
	ev.UserID, ev.Role = user.ID, role
	h.events.Publish(ev)

	if err := h.signIn(c, user, false); err != nil {
		return err
	}
	h.log.Info().Str("user_id", user.ID).Str("role", role).Msg("new user signed in")
	return safeRedirect(c, page.ReturnURL)
}

// ShowLogin expires any external-login cookie and renders the login form.
//
// @Summary      Login form
// @Tags         account
// @Produce      html
// @Param        returnUrl  query  string  false  "Local URL to return to after login"
// @Success      200
// @Router       /account/login [get]
func (h *AccountHandler) ShowLogin(c echo.Context) error {
	if ext, _ := session.Get(ExternalCookieName, c); ext != nil {
		ext.Options = &sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true}
		if err := ext.Save(c.Request(), c.Response()); err != nil {
			h.log.Warn().Err(err).Msg("expire external login cookie")
		}
	}
	return c.Render(http.StatusOK, "login", newPage(c, "Log in"))
}

// Login verifies the password and signs the user in.
//
// @Summary      Log in
// @Tags         account
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        Email       formData  string   true   "Email"
// @Param        Password    formData  string   true   "Password"
// @Param        RememberMe  formData  boolean  false  "Keep the session across browser restarts"
// @Param        returnUrl   formData  string   false  "Local URL to return to"
// @Param        _csrf       formData  string   true   "Anti-forgery token"
// @Success      303
// @Failure      403  {object}  map[string]string
// @Failure      422
// @Router       /account/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var form LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	page := newPage(c, "Log in")
	page.Email, page.RememberMe = form.Email, form.RememberMe
	if redisplay, err := h.validate(c, &form, page); redisplay {
		return c.Render(http.StatusUnprocessableEntity, "login", page)
	} else if err != nil {
		return err
	}

	user, err := h.accounts.Authenticate(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			h.events.Publish(newEvent(c, domain.EventLoginFailed, form.Email))
			page.Errors = append(page.Errors, invalidLoginMessage)
			return c.Render(http.StatusUnprocessableEntity, "login", page)
		}
		return err
	}

	if err := h.signIn(c, user, form.RememberMe); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	ev := newEvent(c, domain.EventLoginSucceeded, user.Email)
	ev.UserID = user.ID
	h.events.Publish(ev)

	h.log.Info().Str("user_id", user.ID).Bool("persistent", form.RememberMe).Msg("user logged in")
	return safeRedirect(c, page.ReturnURL)
}

// Logout destroys the current session.
//
// @Summary      Log out
// @Tags         account
// @Accept       x-www-form-urlencoded
// @Param        _csrf  formData  string  true  "Anti-forgery token"
// @Success      303
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /account/logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.sessions.SignOut(c.Request().Context(), s.ID); err != nil {
		return err
	}
	h.cookie.Expire(c)
	metrics.LogoutsTotal.Inc()

	ev := newEvent(c, domain.EventLoggedOut, s.Email)
	ev.UserID = s.UserID
	h.events.Publish(ev)

	h.log.Info().Str("user_id", s.UserID).Msg("user logged out")
	return c.Redirect(http.StatusSeeOther, "/")
}

// ShowAddUser renders the admin form with the selectable roles.
//
// @Summary      Add-user form
// @Tags         account
// @Produce      html
// @Param        returnUrl  query  string  false  "Local URL to return to"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Router       /account/adduser [get]
func (h *AccountHandler) ShowAddUser(c echo.Context) error {
	page := newPage(c, "Add user")
	page.Roles = h.accounts.RoleNames()
	page.SelectedRole = domain.RoleNormal
	return c.Render(http.StatusOK, "adduser", page)
}

// AddUser creates an account with the selected role. The admin stays signed
// in as themselves.
//
// @Summary      Add a user
// @Tags         account
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        Email         formData  string  true   "Email"
// @Param        Password      formData  string  true   "Password"
// @Param        SelectedRole  formData  string  true   "Role"  Enums(admin, normal)
// @Param        returnUrl     formData  string  false  "Local URL to return to"
// @Param        _csrf         formData  string  true   "Anti-forgery token"
// @Success      303
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      422
// @Router       /account/adduser [post]
func (h *AccountHandler) AddUser(c echo.Context) error {
	admin, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form AddUserForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	page := newPage(c, "Add user")
	page.Roles = h.accounts.RoleNames()
	page.Email, page.SelectedRole = form.Email, form.SelectedRole
	if redisplay, err := h.validate(c, &form, page); redisplay {
		return c.Render(http.StatusUnprocessableEntity, "adduser", page)
	} else if err != nil {
		return err
	}

	user, err := h.accounts.AddUser(c.Request().Context(), form.Email, form.Password, form.SelectedRole)
	if err != nil {
		switch {
		case addIdentityErrors(err, page):
		case errors.Is(err, domain.ErrRoleNotFound):
			page.FieldErrors["SelectedRole"] = "The selected role does not exist."
		default:
			return err
		}
		return c.Render(http.StatusUnprocessableEntity, "adduser", page)
	}
	metrics.UsersAddedTotal.WithLabelValues(form.SelectedRole).Inc()

	ev := newEvent(c, domain.EventUserAdded, user.Email)
	ev.UserID, ev.Role = user.ID, form.SelectedRole
	h.events.Publish(ev)

	h.log.Info().
		Str("user_id", user.ID).
		Str("role", form.SelectedRole).
		Str("by", admin.UserID).
		Msg("user added by admin")
	return safeRedirect(c, page.ReturnURL)
}

// validate runs the form validator. redisplay is true when field errors were
// copied onto page; err is set only for failures that are not field errors.
func (h *AccountHandler) validate(c echo.Context, form any, page *pageData) (redisplay bool, err error) {
	err = c.Validate(form)
	if err == nil {
		return false, nil
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		for f, msg := range ve {
			page.FieldErrors[f] = msg
		}
		return true, nil
	}
	return false, err
}

// signIn issues a new session for user, revoking the one the request
// arrived with so its record does not outlive the overwritten cookie.
func (h *AccountHandler) signIn(c echo.Context, user *domain.User, persistent bool) error {
	if prev := middleware.CurrentSession(c); prev != nil {
		if err := h.sessions.SignOut(c.Request().Context(), prev.ID); err != nil {
			h.log.Warn().Err(err).Str("session_id", prev.ID).Msg("revoke previous session")
		}
	}
	token, s, err := h.sessions.SignIn(c.Request().Context(), user, persistent)
	if err != nil {
		return err
	}
	h.cookie.Write(c, token, s)
	middleware.SetSession(c, s)
	return nil
}

// addIdentityErrors copies every identity error description onto page as a
// form-level message. It reports whether err carried any.
func addIdentityErrors(err error, page *pageData) bool {
	var ie domain.IdentityErrors
	if !errors.As(err, &ie) {
		return false
	}
	page.Errors = append(page.Errors, ie.Descriptions()...)
	return true
}

func primaryRole(u *domain.User) string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0]
}
