package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/authuser/accounts/internal/core/ports"
)

type HomeHandler struct {
	accounts ports.AccountService
	log      zerolog.Logger
}

func NewHomeHandler(accounts ports.AccountService, log zerolog.Logger) *HomeHandler {
	return &HomeHandler{accounts: accounts, log: log}
}

// Index renders the landing page.
//
// @Summary      Landing page
// @Tags         home
// @Produce      html
// @Success      200
// @Router       / [get]
func (h *HomeHandler) Index(c echo.Context) error {
	page := newPage(c, "Home")
	n, err := h.accounts.CountUsers(c.Request().Context())
	if err != nil {
		// the page is still useful without the setup hint
		h.log.Warn().Err(err).Msg("count users")
	} else {
		page.SetupRequired = n == 0
	}
	return c.Render(http.StatusOK, "index", page)
}
