// Package filestore keeps CLI sessions in per-profile JSON files.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/netondemand/portal/internal/core/domain"
)

const (
	dirMode  = 0o700
	fileMode = 0o600
)

var validProfile = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Store implements ports.SessionStore. The session id is the profile name and
// each profile is one file holding the auth_token, refresh_token and user keys.
type Store struct {
	dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir is <user config dir>/portalctl.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "portalctl"), nil
}

func (s *Store) Save(_ context.Context, profile string, sess *domain.Session) error {
	path, err := s.path(profile)
	if err != nil {
		return err
	}
	if err := writeJSON(s.dir, path, sess); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Store) Load(_ context.Context, profile string) (*domain.Session, error) {
	path, err := s.path(profile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	if sess.AccessToken == "" {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *Store) Clear(_ context.Context, profile string) error {
	path, err := s.path(profile)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *Store) path(profile string) (string, error) {
	return profilePath(s.dir, profile, ".json")
}

func profilePath(dir, profile, suffix string) (string, error) {
	if profile == "" {
		profile = "default"
	}
	if !validProfile.MatchString(profile) {
		return "", fmt.Errorf("invalid profile name %q", profile)
	}
	return filepath.Join(dir, profile+suffix), nil
}

// writeJSON replaces path atomically with the indented encoding of v.
func writeJSON(dir, path string, v any) error {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
