package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process persists a single audit event. Events without an id or timestamp get one.
func (s *activityService) Process(ctx context.Context, event domain.ActivityEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("process activity: %w", err)
	}

	s.log.Debug().
		Str("kind", string(event.Kind)).
		Str("user_id", event.UserID).
		Msg("activity recorded")
	return nil
}

// Recent returns the latest events of a user, newest first.
func (s *activityService) Recent(ctx context.Context, userID string, limit int) ([]domain.ActivityEvent, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	events, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return events, nil
}

func newActivity(kind domain.ActivityKind, userID, subject string, meta map[string]string) domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		UserID:    userID,
		Subject:   subject,
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	}
}
