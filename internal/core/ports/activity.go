package ports

import (
	"context"

	"github.com/netondemand/portal/internal/core/domain"
)

// ActivityRecorder accepts audit events without blocking the caller.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// ActivityRepository handles audit trail persistence.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
	// ListByUser returns the most recent events of a user, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityEvent, error)
}

// NopRecorder drops every event. Used when no audit store is configured.
type NopRecorder struct{}

func (NopRecorder) Record(domain.ActivityEvent) {}

// ActivityService persists and reads the audit trail.
type ActivityService interface {
	Process(ctx context.Context, event domain.ActivityEvent) error
	Recent(ctx context.Context, userID string, limit int) ([]domain.ActivityEvent, error)
}
