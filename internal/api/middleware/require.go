package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// LoginPath is where anonymous page requests are sent.
const LoginPath = "/account/login"

// RequireAuth rejects anonymous requests. Page loads are redirected to the
// login form with the current path as returnUrl; anything else gets 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentSession(c) != nil {
				return next(c)
			}
			if c.Request().Method == http.MethodGet {
				target := LoginPath + "?returnUrl=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusSeeOther, target)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
	}
}
