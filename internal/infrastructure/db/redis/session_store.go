package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/netondemand/portal/internal/core/domain"
)

const (
	DefaultSessionTTL  = 24 * time.Hour
	DefaultRememberTTL = 30 * 24 * time.Hour
)

// SessionStore implements ports.SessionStore. Each session owns three keys:
// session:<hash>:auth_token, session:<hash>:refresh_token and session:<hash>:user.
type SessionStore struct {
	client      *redis.Client
	ttl         time.Duration
	rememberTTL time.Duration
}

// NewSessionStore creates a SessionStore. Non-positive TTLs fall back to the defaults.
func NewSessionStore(client *redis.Client, ttl, rememberTTL time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if rememberTTL <= 0 {
		rememberTTL = DefaultRememberTTL
	}
	return &SessionStore{client: client, ttl: ttl, rememberTTL: rememberTTL}
}

// Save writes the three keys atomically with the session's TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, sess *domain.Session) error {
	ttl := s.ttl
	if sess.RememberMe {
		ttl = s.rememberTTL
	}

	var user []byte
	if sess.User != nil {
		var err error
		if user, err = json.Marshal(sess.User); err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
	}

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(sessionID, domain.KeyAuthToken), sess.AccessToken, ttl)
		p.Set(ctx, sessionKey(sessionID, domain.KeyRefreshToken), sess.RefreshToken, ttl)
		if user != nil {
			p.Set(ctx, sessionKey(sessionID, domain.KeyUser), user, ttl)
		} else {
			p.Del(ctx, sessionKey(sessionID, domain.KeyUser))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load reads the three keys. The remember-me flag is recovered from the
// remaining lifetime of the access token key.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var (
		values *redis.SliceCmd
		ttl    *redis.DurationCmd
	)
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		values = p.MGet(ctx,
			sessionKey(sessionID, domain.KeyAuthToken),
			sessionKey(sessionID, domain.KeyRefreshToken),
			sessionKey(sessionID, domain.KeyUser),
		)
		ttl = p.TTL(ctx, sessionKey(sessionID, domain.KeyAuthToken))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	fields := values.Val()
	if len(fields) != 3 {
		return nil, domain.ErrSessionNotFound
	}
	token, _ := fields[0].(string)
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	sess := &domain.Session{AccessToken: token}
	sess.RefreshToken, _ = fields[1].(string)
	if raw, ok := fields[2].(string); ok && raw != "" {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, fmt.Errorf("decode session user: %w", err)
		}
		sess.User = &user
	}
	sess.RememberMe = rememberedFor(ttl.Val(), s.ttl)
	return sess, nil
}

// Clear removes the three keys.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	err := s.client.Del(ctx,
		sessionKey(sessionID, domain.KeyAuthToken),
		sessionKey(sessionID, domain.KeyRefreshToken),
		sessionKey(sessionID, domain.KeyUser),
	).Err()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func sessionKey(sessionID, field string) string {
	return "session:" + hashID(sessionID) + ":" + field
}

// rememberedFor reports whether a key with the remaining lifetime left must
// have been written with the longer remember-me TTL.
func rememberedFor(left, sessionTTL time.Duration) bool {
	return left > sessionTTL
}
