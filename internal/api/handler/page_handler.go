package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/netondemand/portal/internal/api/middleware"
)

// PageHandler serves the single-page front end. Every portal page answers
// with the same index file; the browser app picks the view from the URL.
type PageHandler struct {
	staticDir string
}

func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{staticDir: staticDir}
}

// Index serves the SPA entry point.
func (h *PageHandler) Index(c echo.Context) error {
	return c.File(filepath.Join(h.staticDir, "index.html"))
}

// ToDashboard redirects to the landing page.
func (h *PageHandler) ToDashboard(c echo.Context) error {
	return c.Redirect(http.StatusFound, middleware.DashboardPath)
}

// ToLogin redirects to the login page.
func (h *PageHandler) ToLogin(c echo.Context) error {
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// Fallback serves a static asset when one exists at the path. Unknown API
// paths are 404; any other unknown page goes to the dashboard.
func (h *PageHandler) Fallback(c echo.Context) error {
	if middleware.IsAPIRequest(c) {
		return echo.ErrNotFound
	}

	rel := filepath.Clean("/" + c.Request().URL.Path)
	if rel != "/" {
		name := filepath.Join(h.staticDir, rel)
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return c.File(name)
		}
	}
	return h.ToDashboard(c)
}
