package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/authuser/accounts/internal/api/middleware"
	"github.com/authuser/accounts/internal/core/domain"
	"github.com/authuser/accounts/internal/core/ports"
)

// ctxSession returns the session injected by the Session middleware. Routes
// that call it sit behind RequireAuth, so a missing session means the
// middleware chain is misconfigured; reject with 401 rather than panic.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := middleware.CurrentSession(c)
	if s == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return s, nil
}

// newEvent stamps an audit event with the request's origin.
func newEvent(c echo.Context, typ domain.AccountEventType, email string) ports.AccountEventInput {
	return ports.AccountEventInput{
		Type:       string(typ),
		Email:      email,
		RemoteIP:   c.RealIP(),
		OccurredAt: time.Now().UTC(),
	}
}
