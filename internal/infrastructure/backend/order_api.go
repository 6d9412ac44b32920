package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/netondemand/portal/internal/core/domain"
)

const defaultRecentLimit = 10

// OrderAPI implements ports.OrderBackend.
type OrderAPI struct {
	c *Client
}

func NewOrderAPI(c *Client) *OrderAPI {
	return &OrderAPI{c: c}
}

func (a *OrderAPI) Create(ctx context.Context, in domain.CreateOrder) (*domain.Order, error) {
	return decode[domain.Order](a.c.send(ctx, http.MethodPost, "/orders", "/orders", in))
}

func (a *OrderAPI) Get(ctx context.Context, id string) (*domain.Order, error) {
	return decode[domain.Order](a.c.get(ctx, "/orders/"+url.PathEscape(id), "/orders/{id}", nil))
}

func (a *OrderAPI) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	path := "/orders/number/" + url.PathEscape(orderNumber)
	return decode[domain.Order](a.c.get(ctx, path, "/orders/number/{orderNumber}", nil))
}

func (a *OrderAPI) List(ctx context.Context) ([]domain.Order, error) {
	return decodeList[domain.Order](a.c.get(ctx, "/orders", "/orders", nil))
}

func (a *OrderAPI) Paged(ctx context.Context, page, limit int) (*domain.Page[domain.Order], error) {
	page, limit = domain.NormalizePaging(page, limit)
	q := BuildParams(map[string]any{"page": page, "limit": limit})
	return decodePage[domain.Order](a.c.get(ctx, "/orders/paged", "/orders/paged", q))
}

func (a *OrderAPI) Search(ctx context.Context, in domain.OrderSearch) (*domain.Page[domain.Order], error) {
	page, limit := domain.NormalizePaging(in.Page, in.Limit)
	q := BuildParams(map[string]any{
		"status":    string(in.Status),
		"orderType": string(in.OrderType),
		"serviceId": in.ServiceID,
		"startDate": in.StartDate,
		"endDate":   in.EndDate,
		"minCost":   in.MinCost,
		"maxCost":   in.MaxCost,
		"page":      page,
		"limit":     limit,
	})
	return decodePage[domain.Order](a.c.get(ctx, "/orders/search", "/orders/search", q))
}

func (a *OrderAPI) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	path := "/orders/" + url.PathEscape(id) + "/cancel"
	return decode[domain.Order](a.c.send(ctx, http.MethodPost, path, "/orders/{id}/cancel", nil))
}

func (a *OrderAPI) Pending(ctx context.Context) ([]domain.Order, error) {
	return decodeList[domain.Order](a.c.get(ctx, "/orders/pending", "/orders/pending", nil))
}

// Recent returns the latest orders; a non-positive limit means 10.
func (a *OrderAPI) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	q := BuildParams(map[string]any{"limit": limit})
	return decodeList[domain.Order](a.c.get(ctx, "/orders/recent", "/orders/recent", q))
}

func (a *OrderAPI) Statistics(ctx context.Context) (*domain.OrderStatistics, error) {
	return decode[domain.OrderStatistics](a.c.get(ctx, "/orders/statistics", "/orders/statistics", nil))
}

func (a *OrderAPI) Update(ctx context.Context, id string, in domain.UpdateOrder) (*domain.Order, error) {
	return decode[domain.Order](a.c.send(ctx, http.MethodPut, "/orders/"+url.PathEscape(id), "/orders/{id}", in))
}
