package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authuser/accounts/internal/core/domain"
	"github.com/authuser/accounts/internal/core/ports"
)

const sessionContextKey = "session"

// SessionCookie describes the authentication cookie.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Write sets the cookie for s. Persistent sessions outlive the browser; the
// rest are browser-session cookies.
func (sc SessionCookie) Write(c echo.Context, token string, s *domain.Session) {
	cookie := sc.base()
	cookie.Value = token
	if s.Persistent {
		cookie.Expires = s.ExpiresAt
		cookie.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
	}
	c.SetCookie(cookie)
}

// Expire tells the browser to drop the cookie.
func (sc SessionCookie) Expire(c echo.Context) {
	cookie := sc.base()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	c.SetCookie(cookie)
}

func (sc SessionCookie) base() *http.Cookie {
	return &http.Cookie{
		Name:     sc.Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Session resolves the session cookie and injects the session into context.
// A cookie that no longer resolves is expired and the request continues
// anonymously.
func Session(sessions ports.SessionService, cookie SessionCookie, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(cookie.Name)
			if err != nil || ck.Value == "" {
				return next(c)
			}

			s, err := sessions.Resolve(c.Request().Context(), ck.Value)
			if err != nil {
				cookie.Expire(c)
				if !errors.Is(err, domain.ErrSessionNotFound) {
					log.Warn().Err(err).Msg("resolve session")
				}
				return next(c)
			}

			c.Set(sessionContextKey, s)
			return next(c)
		}
	}
}

// CurrentSession returns the session injected by Session, or nil.
func CurrentSession(c echo.Context) *domain.Session {
	s, _ := c.Get(sessionContextKey).(*domain.Session)
	return s
}

// SetSession stores s in the request context.
func SetSession(c echo.Context, s *domain.Session) {
	c.Set(sessionContextKey, s)
}
