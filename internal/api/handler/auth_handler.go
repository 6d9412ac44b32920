package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/netondemand/portal/internal/api/middleware"
	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    *middleware.Sessions
}

func NewAuthHandler(authService ports.AuthService, sessions *middleware.Sessions) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

type loginRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
	ReturnURL  string `json:"returnUrl"`
}

type authResponse struct {
	User      *domain.User `json:"user,omitempty"`
	ExpiresIn int64        `json:"expiresIn,omitempty"`
	Redirect  string       `json:"redirect,omitempty"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

// Login authenticates against the backend and opens a portal session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sid := uuid.NewString()
	res, err := h.authService.Login(c.Request().Context(), sid, domain.Credentials{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		return err
	}

	h.sessions.Retire(c)
	h.sessions.Issue(c, sid, req.RememberMe)
	return c.JSON(http.StatusOK, authResponse{
		User:      &res.User,
		ExpiresIn: res.ExpiresIn,
		Redirect:  safeRedirect(req.ReturnURL, middleware.DashboardPath),
	})
}

// Logout ends the session and clears the cookie. It succeeds without a session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sid := middleware.SessionID(c); sid != "" {
		if err := h.authService.Logout(c.Request().Context(), sid); err != nil {
			return err
		}
	}
	h.sessions.Clear(c)
	return c.JSON(http.StatusOK, authResponse{Redirect: middleware.LoginPath})
}

// Refresh exchanges the session's refresh token for a new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	sid, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	res, err := h.authService.Refresh(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: &res.User, ExpiresIn: res.ExpiresIn})
}

// Session reports whether the caller is signed in.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: middleware.CurrentSession(c) != nil,
		User:          middleware.CurrentUser(c),
	})
}
