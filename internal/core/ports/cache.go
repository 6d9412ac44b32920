package ports

import (
	"context"

	"github.com/netondemand/portal/internal/core/domain"
)

// CatalogCache keeps rarely changing catalog reads (categories, service types).
// Misses and write failures are never fatal.
type CatalogCache interface {
	Categories(ctx context.Context) ([]domain.ServiceCategory, bool)
	SetCategories(ctx context.Context, categories []domain.ServiceCategory)
	Types(ctx context.Context) ([]string, bool)
	SetTypes(ctx context.Context, types []string)
}

// SubmitGuard remembers which order an idempotency key produced, per session.
type SubmitGuard interface {
	Lookup(ctx context.Context, sessionID, key string) (orderID string, found bool, err error)
	Remember(ctx context.Context, sessionID, key, orderID string) error
}
