package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/api/middleware"
	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func signIn(c echo.Context) {
	c.Set(middleware.KeySessionID, "sid-1")
	c.Set(middleware.KeySession, &domain.Session{AccessToken: "tok"})
	c.Set(middleware.KeyUser, &domain.User{ID: "u1", Username: "jdoe", Role: domain.RoleUser})
}

func newTestSessions(auth ports.AuthService) *middleware.Sessions {
	return middleware.NewSessions(auth, middleware.CookieConfig{TTL: 24 * time.Hour, RememberTTL: 720 * time.Hour}, zerolog.Nop())
}

type stubAuthService struct {
	loginFn   func(ctx context.Context, sid string, creds domain.Credentials) (*domain.AuthResult, error)
	refreshFn func(ctx context.Context, sid string) (*domain.AuthResult, error)
	logoutFn  func(ctx context.Context, sid string) error
}

func (s *stubAuthService) Login(ctx context.Context, sid string, creds domain.Credentials) (*domain.AuthResult, error) {
	return s.loginFn(ctx, sid, creds)
}

func (s *stubAuthService) Refresh(ctx context.Context, sid string) (*domain.AuthResult, error) {
	return s.refreshFn(ctx, sid)
}

func (s *stubAuthService) Logout(ctx context.Context, sid string) error {
	return s.logoutFn(ctx, sid)
}

func (s *stubAuthService) Invalidate(context.Context, string) error { return nil }

func (s *stubAuthService) Restore(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrNotAuthenticated
}

type stubOrderService struct {
	ports.OrderService
	createFn func(ctx context.Context, in ports.CreateOrderInput) (*ports.CreateOrderResult, error)
	cancelFn func(ctx context.Context, userID, id string) (*domain.Order, error)
	searchFn func(ctx context.Context, in domain.OrderSearch) (*domain.Page[domain.Order], error)
	recentFn func(ctx context.Context, limit int) ([]domain.Order, error)
}

func (s *stubOrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrderService) Cancel(ctx context.Context, userID, id string) (*domain.Order, error) {
	return s.cancelFn(ctx, userID, id)
}

func (s *stubOrderService) Search(ctx context.Context, in domain.OrderSearch) (*domain.Page[domain.Order], error) {
	return s.searchFn(ctx, in)
}

func (s *stubOrderService) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.recentFn(ctx, limit)
}

type stubCatalogService struct {
	ports.CatalogService
	searchFn func(ctx context.Context, in domain.ServiceSearch) (*domain.Page[domain.ServiceSummary], error)
}

func (s *stubCatalogService) Search(ctx context.Context, in domain.ServiceSearch) (*domain.Page[domain.ServiceSummary], error) {
	return s.searchFn(ctx, in)
}

type stubProfileService struct {
	getFn            func(ctx context.Context) (*domain.UserProfile, error)
	updateFn         func(ctx context.Context, sid string, in domain.UpdateProfile) (*domain.UserProfile, error)
	changePasswordFn func(ctx context.Context, userID string, in domain.ChangePassword) (string, error)
}

func (s *stubProfileService) Get(ctx context.Context) (*domain.UserProfile, error) {
	return s.getFn(ctx)
}

func (s *stubProfileService) Update(ctx context.Context, sid string, in domain.UpdateProfile) (*domain.UserProfile, error) {
	return s.updateFn(ctx, sid, in)
}

func (s *stubProfileService) ChangePassword(ctx context.Context, userID string, in domain.ChangePassword) (string, error) {
	return s.changePasswordFn(ctx, userID, in)
}
