package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

// CatalogService implements catalog browsing. Categories and service types are
// served from the cache when one is configured.
type CatalogService struct {
	api   ports.CatalogBackend
	cache ports.CatalogCache
	log   zerolog.Logger
}

func NewCatalogService(api ports.CatalogBackend, cache ports.CatalogCache, log zerolog.Logger) *CatalogService {
	return &CatalogService{api: api, cache: cache, log: log}
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.ServiceCategory, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Categories(ctx); ok {
			return cached, nil
		}
	}
	categories, err := s.api.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetCategories(ctx, categories)
	}
	return categories, nil
}

func (s *CatalogService) Category(ctx context.Context, id string) (*domain.ServiceCategory, error) {
	return s.api.Category(ctx, id)
}

func (s *CatalogService) Types(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Types(ctx); ok {
			return cached, nil
		}
	}
	types, err := s.api.Types(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetTypes(ctx, types)
	}
	return types, nil
}

func (s *CatalogService) Services(ctx context.Context) ([]domain.ServiceSummary, error) {
	return s.api.Services(ctx)
}

func (s *CatalogService) ServicesPaged(ctx context.Context, page, limit int) (*domain.Page[domain.ServiceSummary], error) {
	return s.api.ServicesPaged(ctx, page, limit)
}

func (s *CatalogService) Service(ctx context.Context, id string) (*domain.ServiceDetail, error) {
	return s.api.Service(ctx, id)
}

// Search filters the full service list locally and returns the requested page.
// A category id that matches no known category does not filter.
func (s *CatalogService) Search(ctx context.Context, in domain.ServiceSearch) (*domain.Page[domain.ServiceSummary], error) {
	services, err := s.api.Services(ctx)
	if err != nil {
		return nil, err
	}

	var categoryName string
	if in.CategoryID != "" {
		categories, err := s.Categories(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range categories {
			if c.ID == in.CategoryID {
				categoryName = c.Name
				break
			}
		}
	}

	name := strings.ToLower(in.Name)
	filtered := make([]domain.ServiceSummary, 0, len(services))
	for _, svc := range services {
		if name != "" && !strings.Contains(strings.ToLower(svc.Name), name) {
			continue
		}
		if categoryName != "" && svc.CategoryName != categoryName {
			continue
		}
		if in.ServiceType != "" && svc.ServiceType != in.ServiceType {
			continue
		}
		if in.MinPrice != nil && svc.BasePriceMonthly < *in.MinPrice {
			continue
		}
		if in.MaxPrice != nil && svc.BasePriceMonthly > *in.MaxPrice {
			continue
		}
		if in.MinBandwidth != nil && svc.BaseBandwidthMbps < *in.MinBandwidth {
			continue
		}
		if in.MaxBandwidth != nil && svc.BaseBandwidthMbps > *in.MaxBandwidth {
			continue
		}
		if in.BandwidthAdjustable != nil && svc.IsBandwidthAdjustable != *in.BandwidthAdjustable {
			continue
		}
		filtered = append(filtered, svc)
	}

	page := domain.Paginate(filtered, in.Page, in.Limit)
	return &page, nil
}

// BandwidthAdjustable lists the services whose bandwidth can be changed after provisioning.
func (s *CatalogService) BandwidthAdjustable(ctx context.Context) ([]domain.ServiceSummary, error) {
	services, err := s.api.Services(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ServiceSummary, 0, len(services))
	for _, svc := range services {
		if svc.IsBandwidthAdjustable {
			out = append(out, svc)
		}
	}
	return out, nil
}
