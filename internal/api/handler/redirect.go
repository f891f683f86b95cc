package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// isLocalURL reports whether target stays on this site: an absolute path with
// no scheme, host or protocol-relative prefix. "~/" is accepted as an alias
// for the root.
func isLocalURL(target string) bool {
	if target == "" {
		return false
	}
	if strings.HasPrefix(target, "~/") {
		target = target[1:]
	}
	if target[0] != '/' {
		return false
	}
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return false
	}
	for _, r := range target {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// localTarget returns target when it is local and "/" otherwise.
func localTarget(target string) string {
	if !isLocalURL(target) {
		return "/"
	}
	if strings.HasPrefix(target, "~/") {
		return target[1:]
	}
	return target
}

// safeRedirect sends a 303 to target, or to the home page when target points
// off-site.
func safeRedirect(c echo.Context, target string) error {
	return c.Redirect(http.StatusSeeOther, localTarget(target))
}
