package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
	"github.com/netondemand/portal/internal/pkg/metrics"
)

const dashboardRecentLimit = 10

type OrderService struct {
	api      ports.OrderBackend
	guard    ports.SubmitGuard
	activity ports.ActivityRecorder
	logger   zerolog.Logger
}

func NewOrderService(api ports.OrderBackend, guard ports.SubmitGuard, activity ports.ActivityRecorder, logger zerolog.Logger) *OrderService {
	if activity == nil {
		activity = ports.NopRecorder{}
	}
	return &OrderService{api: api, guard: guard, activity: activity, logger: logger}
}

// Create submits an order. If an idempotency key is provided and was already
// used by the same session, the previously created order is returned without
// submitting again.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	guarded := in.IdempotencyKey != "" && s.guard != nil

	if guarded {
		orderID, found, err := s.guard.Lookup(ctx, in.SessionID, in.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("submit guard lookup failed, submitting anyway")
		} else if found {
			existing, err := s.api.Get(ctx, orderID)
			if err != nil {
				return nil, err
			}
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("order_id", orderID).Msg("idempotent replay")
			return &ports.CreateOrderResult{Order: existing, AlreadyExisted: true}, nil
		}
	}

	order, err := s.api.Create(ctx, in.Order)
	if err != nil {
		s.logger.Error().Err(err).Str("service_id", in.Order.ServiceID).Msg("failed to create order")
		return nil, err
	}

	if guarded {
		if err := s.guard.Remember(ctx, in.SessionID, in.IdempotencyKey, order.ID); err != nil {
			s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to set submit guard")
		}
	}

	metrics.OrdersSubmittedTotal.WithLabelValues(string(in.Order.OrderType)).Inc()
	s.activity.Record(newActivity(domain.ActivityOrderCreated, in.UserID, order.ID,
		map[string]string{"order_number": order.OrderNumber, "order_type": string(in.Order.OrderType)}))
	s.logger.Info().Str("order_id", order.ID).Str("order_number", order.OrderNumber).Msg("order created")

	return &ports.CreateOrderResult{Order: order}, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.api.Get(ctx, id)
}

func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.api.GetByNumber(ctx, orderNumber)
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.api.List(ctx)
}

func (s *OrderService) Paged(ctx context.Context, page, limit int) (*domain.Page[domain.Order], error) {
	return s.api.Paged(ctx, page, limit)
}

// Search applies the default page (1) and limit (20) before querying.
func (s *OrderService) Search(ctx context.Context, in domain.OrderSearch) (*domain.Page[domain.Order], error) {
	in.Page, in.Limit = domain.NormalizePaging(in.Page, in.Limit)
	return s.api.Search(ctx, in)
}

// Cancel cancels an order still in a cancellable state.
func (s *OrderService) Cancel(ctx context.Context, userID, id string) (*domain.Order, error) {
	current, err := s.api.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanCancel() {
		return nil, fmt.Errorf("cancel order %s: %w (status %s)", current.OrderNumber, domain.ErrOrderNotCancellable, current.Status)
	}

	order, err := s.api.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	s.activity.Record(newActivity(domain.ActivityOrderCancelled, userID, order.ID,
		map[string]string{"order_number": order.OrderNumber}))
	s.logger.Info().Str("order_id", order.ID).Msg("order cancelled")
	return order, nil
}

func (s *OrderService) Pending(ctx context.Context) ([]domain.Order, error) {
	return s.api.Pending(ctx)
}

func (s *OrderService) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = dashboardRecentLimit
	}
	return s.api.Recent(ctx, limit)
}

func (s *OrderService) Statistics(ctx context.Context) (*domain.OrderStatistics, error) {
	return s.api.Statistics(ctx)
}

func (s *OrderService) Update(ctx context.Context, userID, id string, in domain.UpdateOrder) (*domain.Order, error) {
	order, err := s.api.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.activity.Record(newActivity(domain.ActivityOrderUpdated, userID, order.ID,
		map[string]string{"order_number": order.OrderNumber}))
	return order, nil
}

// Dashboard fetches statistics, recent and pending orders concurrently. The
// first failure cancels the other calls.
func (s *OrderService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	var (
		stats   *domain.OrderStatistics
		recent  []domain.Order
		pending []domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.api.Statistics(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.api.Recent(gctx, dashboardRecentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.api.Pending(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		Statistics:    *stats,
		RecentOrders:  recent,
		PendingOrders: pending,
	}, nil
}
