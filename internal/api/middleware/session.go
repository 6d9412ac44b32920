package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
	"github.com/netondemand/portal/internal/infrastructure/backend"
)

const (
	// CookieName is the browser cookie carrying the session id.
	CookieName = "portal_session"

	LoginPath     = "/auth/login"
	DashboardPath = "/dashboard"
)

// Keys of the values LoadSession puts on the echo context.
const (
	KeySessionID = "session_id"
	KeySession   = "session"
	KeyUser      = "user"
)

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Secure      bool
	TTL         time.Duration
	RememberTTL time.Duration
}

// Sessions binds the session cookie to the auth service.
type Sessions struct {
	auth ports.AuthService
	cfg  CookieConfig
	log  zerolog.Logger
}

func NewSessions(auth ports.AuthService, cfg CookieConfig, log zerolog.Logger) *Sessions {
	return &Sessions{auth: auth, cfg: cfg, log: log}
}

// Issue writes the cookie for a freshly signed-in session.
func (s *Sessions) Issue(c echo.Context, sessionID string, rememberMe bool) {
	maxAge := s.cfg.TTL
	if rememberMe {
		maxAge = s.cfg.RememberTTL
	}
	c.SetCookie(s.cookie(sessionID, int(maxAge.Seconds())))
}

// Retire ends the session the request arrived with, if any. Login calls it
// before issuing the replacement cookie.
func (s *Sessions) Retire(c echo.Context) {
	if sid := SessionID(c); sid != "" {
		if err := s.auth.Logout(c.Request().Context(), sid); err != nil {
			s.log.Warn().Err(err).Msg("retire previous session")
		}
	}
}

// Clear expires the cookie in the browser.
func (s *Sessions) Clear(c echo.Context) {
	c.SetCookie(s.cookie("", -1))
}

// Invalidate drops the current session after the backend rejected its token.
func (s *Sessions) Invalidate(c echo.Context) {
	if sid := SessionID(c); sid != "" {
		if err := s.auth.Invalidate(c.Request().Context(), sid); err != nil {
			s.log.Warn().Err(err).Msg("invalidate session")
		}
	}
	s.Clear(c)
}

func (s *Sessions) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Load restores the session named by the cookie, if any. A missing or expired
// session clears the cookie and the request continues anonymously. The access
// token is put on the request context for backend calls.
func (s *Sessions) Load() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(CookieName)
			if err != nil || ck.Value == "" {
				return next(c)
			}

			req := c.Request()
			sess, err := s.auth.Restore(req.Context(), ck.Value)
			if errors.Is(err, domain.ErrNotAuthenticated) {
				s.Clear(c)
				return next(c)
			}
			if err != nil {
				return err
			}

			c.Set(KeySessionID, ck.Value)
			c.Set(KeySession, sess)
			if sess.User != nil {
				c.Set(KeyUser, sess.User)
			}
			c.SetRequest(req.WithContext(backend.WithToken(req.Context(), sess.AccessToken)))
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests. API calls get a 401 JSON body,
// page requests are redirected to the login page with a returnUrl.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentSession(c) != nil {
				return next(c)
			}
			if IsAPIRequest(c) {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":    "Authentication required",
					"code":     backend.CodeUnauthorized,
					"redirect": LoginPath,
				})
			}
			return c.Redirect(http.StatusFound, LoginPath+"?returnUrl="+url.QueryEscape(c.Request().RequestURI))
		}
	}
}

// GuestOnly sends signed-in users away from the login page.
func GuestOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentSession(c) != nil {
				return c.Redirect(http.StatusFound, DashboardPath)
			}
			return next(c)
		}
	}
}

// IsAPIRequest reports whether the request targets the JSON API.
func IsAPIRequest(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func SessionID(c echo.Context) string {
	sid, _ := c.Get(KeySessionID).(string)
	return sid
}

func CurrentSession(c echo.Context) *domain.Session {
	sess, _ := c.Get(KeySession).(*domain.Session)
	return sess
}

func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(KeyUser).(*domain.User)
	return u
}
