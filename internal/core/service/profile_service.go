package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

type ProfileService struct {
	api      ports.AuthBackend
	store    ports.SessionStore
	activity ports.ActivityRecorder
	logger   zerolog.Logger
}

func NewProfileService(api ports.AuthBackend, store ports.SessionStore, activity ports.ActivityRecorder, logger zerolog.Logger) *ProfileService {
	if activity == nil {
		activity = ports.NopRecorder{}
	}
	return &ProfileService{api: api, store: store, activity: activity, logger: logger}
}

func (s *ProfileService) Get(ctx context.Context) (*domain.UserProfile, error) {
	return s.api.Me(ctx)
}

// Update saves the profile on the backend and merges the changed names into
// the user kept in the session. A session that disappeared meanwhile is not an error.
func (s *ProfileService) Update(ctx context.Context, sessionID string, in domain.UpdateProfile) (*domain.UserProfile, error) {
	profile, err := s.api.UpdateProfile(ctx, in)
	if err != nil {
		return nil, err
	}

	sess, err := s.store.Load(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
	case err != nil:
		s.logger.Warn().Err(err).Msg("failed to load session after profile update")
	default:
		user := profile.ToUser()
		if sess.User != nil {
			user.Preferences = sess.User.Preferences
			user.Avatar = sess.User.Avatar
			if user.Company == "" {
				user.Company = sess.User.Company
			}
			if user.Role == "" {
				user.Role = sess.User.Role
			}
		}
		sess.User = &user
		if err := s.store.Save(ctx, sessionID, sess); err != nil {
			s.logger.Warn().Err(err).Msg("failed to store updated user")
		}
	}

	s.activity.Record(newActivity(domain.ActivityProfileUpdated, profile.ID, profile.Username, nil))
	return profile, nil
}

// ChangePassword rejects a confirmation that differs from the new password
// before calling the backend.
func (s *ProfileService) ChangePassword(ctx context.Context, userID string, in domain.ChangePassword) (string, error) {
	if in.NewPassword != in.ConfirmPassword {
		return "", domain.ErrPasswordMismatch
	}
	msg, err := s.api.ChangePassword(ctx, in)
	if err != nil {
		return "", fmt.Errorf("change password: %w", err)
	}
	s.activity.Record(newActivity(domain.ActivityPasswordChanged, userID, "", nil))
	return msg, nil
}
