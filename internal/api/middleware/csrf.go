package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	CSRFFormField   = "_csrf"
	CSRFCookieName  = "_csrf"
	CSRFContextKey  = "csrf"
	csrfTokenLookup = "form:" + CSRFFormField + ",header:" + echo.HeaderXCSRFToken
)

// CSRF is echo's double-submit token check. Every failure, including a
// missing token, is reported as 403.
func CSRF(secure bool) echo.MiddlewareFunc {
	return echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    csrfTokenLookup,
		ContextKey:     CSRFContextKey,
		CookieName:     CSRFCookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
		ErrorHandler: func(err error, c echo.Context) error {
			// echo's default handler promotes an internal *HTTPError over the
			// outer one, so keep only its message.
			var he *echo.HTTPError
			if errors.As(err, &he) {
				err = fmt.Errorf("csrf: %v", he.Message)
			}
			return echo.NewHTTPError(http.StatusForbidden, "invalid anti-forgery token").SetInternal(err)
		},
	})
}

// CSRFToken returns the token the CSRF middleware stored for this request.
// Requests admitted by fetch metadata carry no token.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(CSRFContextKey).(string)
	return token
}
