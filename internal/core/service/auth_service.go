package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
	"github.com/netondemand/portal/internal/pkg/metrics"
)

// AuthService implements the session token lifecycle on top of the backend's
// /auth endpoints.
type AuthService struct {
	api      ports.AuthBackend
	store    ports.SessionStore
	activity ports.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(api ports.AuthBackend, store ports.SessionStore, activity ports.ActivityRecorder, log zerolog.Logger) *AuthService {
	if activity == nil {
		activity = ports.NopRecorder{}
	}
	return &AuthService{api: api, store: store, activity: activity, log: log, now: time.Now}
}

// Login authenticates against the backend and stores the token triple. On
// failure nothing is stored and the backend error is returned unchanged.
func (s *AuthService) Login(ctx context.Context, sessionID string, creds domain.Credentials) (*domain.AuthResult, error) {
	grant, err := s.api.Login(ctx, ports.LoginInput{
		UsernameOrEmail: creds.Email,
		Password:        creds.Password,
		RememberMe:      creds.RememberMe,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.activity.Record(newActivity(domain.ActivityLoginFailed, "", creds.Email, nil))
		return nil, err
	}

	user := userFromGrant(grant, nil)
	sess := &domain.Session{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		User:         &user,
		RememberMe:   creds.RememberMe,
	}
	if err := s.store.Save(ctx, sessionID, sess); err != nil {
		return nil, fmt.Errorf("login: store session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.activity.Record(newActivity(domain.ActivityLogin, user.ID, user.Username, nil))
	s.log.Info().Str("user_id", user.ID).Bool("remember_me", creds.RememberMe).Msg("user logged in")

	return &domain.AuthResult{
		User:         user,
		Token:        grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresIn:    grant.ExpiresIn,
	}, nil
}

// Refresh exchanges the stored refresh token for a new token pair. A backend
// failure ends the session.
func (s *AuthService) Refresh(ctx context.Context, sessionID string) (*domain.AuthResult, error) {
	sess, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrNoRefreshToken
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: load session: %w", err)
	}
	if sess.RefreshToken == "" {
		return nil, domain.ErrNoRefreshToken
	}

	grant, err := s.api.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		s.terminate(ctx, sessionID, sess, "refresh_failed")
		return nil, err
	}

	user := userFromGrant(grant, sess.User)
	refreshToken := grant.RefreshToken
	if refreshToken == "" {
		refreshToken = sess.RefreshToken
	}
	next := &domain.Session{
		AccessToken:  grant.AccessToken,
		RefreshToken: refreshToken,
		User:         &user,
		RememberMe:   sess.RememberMe,
	}
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		return nil, fmt.Errorf("refresh: store session: %w", err)
	}

	s.activity.Record(newActivity(domain.ActivityTokenRefreshed, user.ID, user.Username, nil))
	return &domain.AuthResult{
		User:         user,
		Token:        grant.AccessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    grant.ExpiresIn,
	}, nil
}

// Logout clears all stored session keys.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	sess, _ := s.store.Load(ctx, sessionID)
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	metrics.SessionsTerminatedTotal.WithLabelValues("logout").Inc()
	if sess != nil && sess.User != nil {
		s.activity.Record(newActivity(domain.ActivityLogout, sess.User.ID, sess.User.Username, nil))
	}
	return nil
}

// Invalidate clears a session after the backend rejected its token.
func (s *AuthService) Invalidate(ctx context.Context, sessionID string) error {
	sess, _ := s.store.Load(ctx, sessionID)
	s.terminate(ctx, sessionID, sess, "unauthorized")
	return nil
}

// Restore returns the stored session when its access token has not expired.
// A missing or expired token clears the store.
func (s *AuthService) Restore(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		_ = s.store.Clear(ctx, sessionID)
		return nil, domain.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	if !IsTokenValid(sess.AccessToken, s.now()) {
		s.terminate(ctx, sessionID, sess, "expired")
		return nil, domain.ErrNotAuthenticated
	}
	return sess, nil
}

func (s *AuthService) terminate(ctx context.Context, sessionID string, sess *domain.Session, reason string) {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Str("reason", reason).Msg("failed to clear session")
	}
	metrics.SessionsTerminatedTotal.WithLabelValues(reason).Inc()

	if sess == nil || sess.User == nil {
		return
	}
	s.activity.Record(newActivity(domain.ActivitySessionExpired, sess.User.ID, sess.User.Username,
		map[string]string{"reason": reason}))
	s.log.Info().Str("user_id", sess.User.ID).Str("reason", reason).Msg("session terminated")
}

// IsTokenValid reports whether the JWT's exp claim lies after now. The
// signature is not verified; a missing or malformed exp makes the token invalid.
func IsTokenValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(now)
}

// userFromGrant maps the backend profile of a token grant. When the grant has
// no profile the previous user is kept.
func userFromGrant(grant *ports.TokenGrant, previous *domain.User) domain.User {
	if p := grant.Profile(); p != nil {
		return p.ToUser()
	}
	if previous != nil {
		return *previous
	}
	return domain.User{Preferences: domain.DefaultPreferences()}
}
