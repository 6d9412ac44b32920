package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/netondemand/portal/internal/api/middleware"
	"github.com/netondemand/portal/internal/core/domain"
)

// ctxSession returns the session id and user injected by the session
// middleware. Both must be present; a handler reached without them was
// registered outside RequireSession.
func ctxSession(c echo.Context) (string, *domain.User, error) {
	sid := middleware.SessionID(c)
	user := middleware.CurrentUser(c)
	if sid == "" || user == nil {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return sid, user, nil
}

// bindAndValidate decodes the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// safeRedirect returns target when it is a local path, else fallback.
// Protocol-relative and absolute URLs are rejected.
func safeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}
