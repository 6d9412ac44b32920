package backend

import (
	"context"
	"net/url"

	"github.com/netondemand/portal/internal/core/domain"
)

// CatalogAPI implements ports.CatalogBackend.
type CatalogAPI struct {
	c *Client
}

func NewCatalogAPI(c *Client) *CatalogAPI {
	return &CatalogAPI{c: c}
}

func (a *CatalogAPI) Services(ctx context.Context) ([]domain.ServiceSummary, error) {
	return decodeList[domain.ServiceSummary](a.c.get(ctx, "/services", "/services", nil))
}

func (a *CatalogAPI) ServicesPaged(ctx context.Context, page, limit int) (*domain.Page[domain.ServiceSummary], error) {
	page, limit = domain.NormalizePaging(page, limit)
	q := BuildParams(map[string]any{"page": page, "limit": limit})
	return decodePage[domain.ServiceSummary](a.c.get(ctx, "/services/paged", "/services/paged", q))
}

func (a *CatalogAPI) Service(ctx context.Context, id string) (*domain.ServiceDetail, error) {
	return decode[domain.ServiceDetail](a.c.get(ctx, "/services/"+url.PathEscape(id), "/services/{id}", nil))
}

func (a *CatalogAPI) Categories(ctx context.Context) ([]domain.ServiceCategory, error) {
	return decodeList[domain.ServiceCategory](a.c.get(ctx, "/services/categories", "/services/categories", nil))
}

func (a *CatalogAPI) Category(ctx context.Context, id string) (*domain.ServiceCategory, error) {
	path := "/services/categories/" + url.PathEscape(id)
	return decode[domain.ServiceCategory](a.c.get(ctx, path, "/services/categories/{id}", nil))
}

func (a *CatalogAPI) Types(ctx context.Context) ([]string, error) {
	return decodeList[string](a.c.get(ctx, "/services/types", "/services/types", nil))
}
