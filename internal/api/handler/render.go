package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/authuser/accounts/internal/api/middleware"
	"github.com/authuser/accounts/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"index", "register", "login", "adduser"}

// Renderer renders the embedded HTML pages. Each page is parsed together with
// the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := template.New(p).ParseFS(templateFS, "templates/layout.html", "templates/"+p+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", p, err)
		}
		r.pages[p] = t
	}
	return r, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// pageData is what every page template receives.
type pageData struct {
	Title     string
	Session   *domain.Session
	CSRFToken string
	ReturnURL string

	Email        string
	RememberMe   bool
	SelectedRole string
	Roles        []string

	// Errors are form-level messages, FieldErrors are keyed by form field.
	Errors      []string
	FieldErrors ValidationErrors

	SetupRequired bool
	IsAdmin       bool
}

func newPage(c echo.Context, title string) *pageData {
	s := middleware.CurrentSession(c)
	return &pageData{
		Title:       title,
		Session:     s,
		CSRFToken:   middleware.CSRFToken(c),
		ReturnURL:   c.FormValue("returnUrl"),
		FieldErrors: ValidationErrors{},
		IsAdmin:     s != nil && s.HasAnyRole(domain.RoleAdmin),
	}
}
