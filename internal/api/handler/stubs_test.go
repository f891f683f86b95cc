package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authuser/accounts/internal/api/middleware"
	"github.com/authuser/accounts/internal/core/domain"
	"github.com/authuser/accounts/internal/core/ports"
)

type stubAccounts struct {
	users        map[string]*domain.User
	registerErr  error
	addUserErr   error
	count        int64
	registerCall int
	addUserCall  int
	addedRole    string
}

func newStubAccounts() *stubAccounts {
	return &stubAccounts{users: map[string]*domain.User{}}
}

func (s *stubAccounts) create(email, role string) *domain.User {
	s.count++
	u := &domain.User{ID: "id-" + email, Email: email, Roles: []string{role}}
	s.users[domain.NormalizeEmail(email)] = u
	return u
}

func (s *stubAccounts) Register(_ context.Context, email, _ string) (*domain.User, error) {
	s.registerCall++
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.create(email, domain.RoleForOrdinal(s.count+1)), nil
}

func (s *stubAccounts) AddUser(_ context.Context, email, _, role string) (*domain.User, error) {
	s.addUserCall++
	if s.addUserErr != nil {
		return nil, s.addUserErr
	}
	s.addedRole = role
	return s.create(email, role), nil
}

// Authenticate accepts goodPassword for any known user.
func (s *stubAccounts) Authenticate(_ context.Context, email, password string) (*domain.User, error) {
	u, ok := s.users[domain.NormalizeEmail(email)]
	if !ok || password != goodPassword {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (s *stubAccounts) CountUsers(context.Context) (int64, error) { return s.count, nil }

func (s *stubAccounts) RoleNames() []string { return append([]string(nil), domain.FixedRoles...) }

type stubSessions struct {
	signedIn   []*domain.Session
	signedOut  []string
	persistent bool
}

func (s *stubSessions) SignIn(_ context.Context, user *domain.User, persistent bool) (string, *domain.Session, error) {
	s.persistent = persistent
	sess := &domain.Session{
		ID:         "sess-" + user.ID,
		UserID:     user.ID,
		Email:      user.Email,
		Roles:      user.Roles,
		Persistent: persistent,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	s.signedIn = append(s.signedIn, sess)
	return "token-" + sess.ID, sess, nil
}

func (s *stubSessions) Resolve(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}

func (s *stubSessions) SignOut(_ context.Context, id string) error {
	s.signedOut = append(s.signedOut, id)
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []ports.AccountEventInput
}

func (p *stubPublisher) Publish(e ports.AccountEventInput) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *stubPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

const goodPassword = "Passw0rd!"

var testCookie = middleware.SessionCookie{Name: "authuser.session"}

type testEnv struct {
	e        *echo.Echo
	accounts *stubAccounts
	sessions *stubSessions
	events   *stubPublisher
}

// newTestEnv wires the handlers without CSRF. as, when set, is injected as
// the current session on every request.
func newTestEnv(t *testing.T, as *domain.Session) *testEnv {
	t.Helper()
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	env := &testEnv{
		e:        echo.New(),
		accounts: newStubAccounts(),
		sessions: &stubSessions{},
		events:   &stubPublisher{},
	}
	env.e.Renderer = renderer
	env.e.Validator = NewValidator()
	env.e.Use(session.Middleware(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))))
	if as != nil {
		env.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				middleware.SetSession(c, as)
				return next(c)
			}
		})
	}

	h := NewAccountHandler(env.accounts, env.sessions, env.events, testCookie, zerolog.Nop())
	env.e.GET("/", NewHomeHandler(env.accounts, zerolog.Nop()).Index)
	env.e.GET("/account/register", h.ShowRegister)
	env.e.POST("/account/register", h.Register)
	env.e.GET("/account/login", h.ShowLogin)
	env.e.POST("/account/login", h.Login)
	env.e.POST("/account/logout", h.Logout)
	env.e.GET("/account/adduser", h.ShowAddUser)
	env.e.POST("/account/adduser", h.AddUser)
	return env
}

func (env *testEnv) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (env *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
