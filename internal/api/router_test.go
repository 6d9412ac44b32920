package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/api/middleware"
	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
	"github.com/netondemand/portal/internal/infrastructure/backend"
)

type stubAuth struct {
	sessions    map[string]*domain.Session
	invalidated []string
}

func (s *stubAuth) Login(_ context.Context, sid string, creds domain.Credentials) (*domain.AuthResult, error) {
	if creds.Password != "password123" {
		return nil, &backend.APIError{Status: http.StatusUnauthorized, Code: "HTTP_401", Message: "Invalid username/email or password"}
	}
	user := domain.User{ID: "u1", Username: creds.Email, Role: domain.RoleUser}
	s.sessions[sid] = &domain.Session{AccessToken: "tok", User: &user}
	return &domain.AuthResult{User: user, Token: "tok"}, nil
}

func (s *stubAuth) Refresh(context.Context, string) (*domain.AuthResult, error) {
	return nil, domain.ErrNoRefreshToken
}

func (s *stubAuth) Logout(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}

func (s *stubAuth) Invalidate(_ context.Context, sid string) error {
	s.invalidated = append(s.invalidated, sid)
	delete(s.sessions, sid)
	return nil
}

func (s *stubAuth) Restore(_ context.Context, sid string) (*domain.Session, error) {
	if sess, ok := s.sessions[sid]; ok {
		return sess, nil
	}
	return nil, domain.ErrNotAuthenticated
}

type stubProfile struct {
	ports.ProfileService
	updateErr error
	sawToken  string
}

func (s *stubProfile) Update(ctx context.Context, _ string, in domain.UpdateProfile) (*domain.UserProfile, error) {
	s.sawToken = backend.TokenFrom(ctx)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &domain.UserProfile{ID: "u1", FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil
}

type stubOrders struct {
	ports.OrderService
}

func (stubOrders) Cancel(context.Context, string, string) (*domain.Order, error) {
	return nil, domain.ErrOrderNotCancellable
}

type fixture struct {
	e       *echo.Echo
	auth    *stubAuth
	profile *stubProfile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<app-root></app-root>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	f := &fixture{
		auth:    &stubAuth{sessions: map[string]*domain.Session{}},
		profile: &stubProfile{},
	}
	f.e = NewRouter(Deps{
		Log:        zerolog.Nop(),
		StaticDir:  dir,
		Cookie:     middleware.CookieConfig{TTL: 24 * time.Hour, RememberTTL: 720 * time.Hour},
		Auth:       f.auth,
		Orders:     stubOrders{},
		Profile:    f.profile,
		Registerer: prometheus.NewRegistry(),
	})
	return f
}

func (f *fixture) signIn(sid string) {
	f.auth.sessions[sid] = &domain.Session{AccessToken: "tok-" + sid, User: &domain.User{ID: "u1", Role: domain.RoleUser}}
}

func (f *fixture) do(method, target, body, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRouter_ProtectedPageRedirectsToLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/profile", "", "")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/auth/login?returnUrl=%2Fprofile" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestRouter_SignedInUserSkipsLoginPage(t *testing.T) {
	f := newFixture(t)
	f.signIn("sid-1")

	rec := f.do(http.MethodGet, "/auth/login", "", "sid-1")
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %d", rec.Code)
	}

	rec = f.do(http.MethodGet, "/orders/o1", "", "sid-1")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "app-root") {
		t.Fatalf("expected SPA index, got %d", rec.Code)
	}
}

func TestRouter_RootAndUnknownPagesGoToDashboard(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/", "/nowhere"} {
		rec := f.do(http.MethodGet, path, "", "")
		if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
			t.Fatalf("%s: expected redirect to /dashboard, got %d", path, rec.Code)
		}
	}
}

func TestRouter_APIWithoutSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/orders", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["redirect"] != "/auth/login" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouter_LoginThenLogout(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/login", `{"email":"john.doe","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["redirect"] != "/dashboard" {
		t.Fatalf("unexpected body: %v", body)
	}

	var sid string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.CookieName {
			sid = ck.Value
		}
	}
	if _, ok := f.auth.sessions[sid]; sid == "" || !ok {
		t.Fatalf("expected a stored session for cookie %q", sid)
	}

	rec = f.do(http.MethodPost, "/api/auth/logout", "", sid)
	if body := decodeBody(t, rec); body["redirect"] != "/auth/login" {
		t.Fatalf("unexpected body: %v", body)
	}
	if len(f.auth.sessions) != 0 {
		t.Fatalf("expected session cleared")
	}
}

func TestRouter_LoginFailureSurfacesBackendMessage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/login", `{"email":"john.doe","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Invalid username/email or password" {
		t.Fatalf("unexpected body: %v", body)
	}
	if len(f.auth.sessions) != 0 {
		t.Fatalf("nothing must be stored on failure")
	}
}

func TestRouter_FailedLoginKeepsExistingSession(t *testing.T) {
	f := newFixture(t)
	f.signIn("sid-1")

	rec := f.do(http.MethodPost, "/api/auth/login", `{"email":"john.doe","password":"wrong"}`, "sid-1")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if _, ok := f.auth.sessions["sid-1"]; !ok {
		t.Fatalf("a failed login must not end the existing session")
	}
	if len(f.auth.invalidated) != 0 {
		t.Fatalf("unexpected invalidation: %v", f.auth.invalidated)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.CookieName {
			t.Fatalf("session cookie must be left untouched, got %+v", ck)
		}
	}
	if body := decodeBody(t, rec); body["redirect"] != nil {
		t.Fatalf("unexpected redirect: %v", body)
	}
}

func TestRouter_ReloginRetiresPreviousSession(t *testing.T) {
	f := newFixture(t)
	f.signIn("sid-1")

	rec := f.do(http.MethodPost, "/api/auth/login", `{"email":"john.doe","password":"password123"}`, "sid-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := f.auth.sessions["sid-1"]; ok {
		t.Fatalf("previous session must be removed")
	}
	if len(f.auth.sessions) != 1 {
		t.Fatalf("expected only the new session, got %d", len(f.auth.sessions))
	}
}

func TestRouter_ValidationErrorIs422(t *testing.T) {
	f := newFixture(t)
	f.signIn("sid-1")

	rec := f.do(http.MethodPut, "/api/profile", `{"firstName":"","lastName":"Doe","email":"jane@acme.example"}`, "sid-1")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	details, _ := body["details"].(map[string]any)
	if details["firstName"] != "First name is required" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouter_BackendConflictKeepsMessage(t *testing.T) {
	f := newFixture(t)
	f.signIn("sid-1")
	f.profile.updateErr = &backend.APIError{Status: http.StatusConflict, Code: "HTTP_409", Message: "Email already in use"}

	rec := f.do(http.MethodPut, "/api/profile", `{"firstName":"Jane","lastName":"Doe","email":"taken@acme.example"}`, "sid-1")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Email already in use" || body["code"] != "HTTP_409" {
		t.Fatalf("unexpected body: %v", body)
	}
	if f.profile.sawToken != "tok-sid-1" {
		t.Fatalf("expected session token on backend context, got %q", f.profile.sawToken)
	}
	if len(f.auth.invalidated) != 0 {
		t.Fatalf("a conflict must not end the session")
	}
}

func TestRouter_BackendUnauthorizedEndsSession(t *testing.T) {
	f := newFixture(t)
	f.signIn("sid-1")
	f.profile.updateErr = &backend.APIError{Status: http.StatusUnauthorized, Code: backend.CodeUnauthorized, Message: "Unauthorized. Please log in again."}

	rec := f.do(http.MethodPut, "/api/profile", `{"firstName":"Jane","lastName":"Doe","email":"jane@acme.example"}`, "sid-1")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["redirect"] != "/auth/login" || body["error"] != "Unauthorized. Please log in again." {
		t.Fatalf("unexpected body: %v", body)
	}
	if len(f.auth.invalidated) != 1 || f.auth.invalidated[0] != "sid-1" {
		t.Fatalf("expected session invalidated, got %v", f.auth.invalidated)
	}
}

func TestRouter_CancelFinalOrderIsConflict(t *testing.T) {
	f := newFixture(t)
	f.signIn("sid-1")

	rec := f.do(http.MethodPost, "/api/orders/o1/cancel", "", "sid-1")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "ORDER_NOT_CANCELLABLE" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouter_AdminActivityNeedsAdminRole(t *testing.T) {
	f := newFixture(t)
	f.signIn("sid-1")

	rec := f.do(http.MethodGet, "/api/admin/activity/u2", "", "sid-1")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
