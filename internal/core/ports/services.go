package ports

import (
	"context"

	"github.com/netondemand/portal/internal/core/domain"
)

// AuthService owns the token lifecycle of a session.
type AuthService interface {
	Login(ctx context.Context, sessionID string, creds domain.Credentials) (*domain.AuthResult, error)
	Refresh(ctx context.Context, sessionID string) (*domain.AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	// Invalidate clears a session the backend no longer accepts.
	Invalidate(ctx context.Context, sessionID string) error
	// Restore returns the signed-in session, or domain.ErrNotAuthenticated after
	// clearing a missing or expired one.
	Restore(ctx context.Context, sessionID string) (*domain.Session, error)
}

// CatalogService defines the catalog browsing use cases.
type CatalogService interface {
	Categories(ctx context.Context) ([]domain.ServiceCategory, error)
	Category(ctx context.Context, id string) (*domain.ServiceCategory, error)
	Types(ctx context.Context) ([]string, error)
	Services(ctx context.Context) ([]domain.ServiceSummary, error)
	ServicesPaged(ctx context.Context, page, limit int) (*domain.Page[domain.ServiceSummary], error)
	Service(ctx context.Context, id string) (*domain.ServiceDetail, error)
	Search(ctx context.Context, in domain.ServiceSearch) (*domain.Page[domain.ServiceSummary], error)
	BandwidthAdjustable(ctx context.Context) ([]domain.ServiceSummary, error)
}

// CreateOrderInput is an order submission with its double-submit guard.
type CreateOrderInput struct {
	SessionID      string
	UserID         string
	IdempotencyKey string
	Order          domain.CreateOrder
}

// CreateOrderResult reports the order and whether it was a replay.
type CreateOrderResult struct {
	Order          *domain.Order
	AlreadyExisted bool
}

// OrderService defines order placement and tracking use cases.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Paged(ctx context.Context, page, limit int) (*domain.Page[domain.Order], error)
	Search(ctx context.Context, in domain.OrderSearch) (*domain.Page[domain.Order], error)
	Cancel(ctx context.Context, userID, id string) (*domain.Order, error)
	Pending(ctx context.Context) ([]domain.Order, error)
	Recent(ctx context.Context, limit int) ([]domain.Order, error)
	Statistics(ctx context.Context) (*domain.OrderStatistics, error)
	Update(ctx context.Context, userID, id string, in domain.UpdateOrder) (*domain.Order, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}

// ProfileService defines profile management use cases.
type ProfileService interface {
	Get(ctx context.Context) (*domain.UserProfile, error)
	// Update saves the profile and refreshes the user stored in the session.
	Update(ctx context.Context, sessionID string, in domain.UpdateProfile) (*domain.UserProfile, error)
	ChangePassword(ctx context.Context, userID string, in domain.ChangePassword) (string, error)
}
