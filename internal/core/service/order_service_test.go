package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

func newOrderSvc(api *stubOrderBackend, guard ports.SubmitGuard, rec ports.ActivityRecorder) *OrderService {
	return NewOrderService(api, guard, rec, zerolog.Nop())
}

func sampleOrder() domain.CreateOrder {
	return domain.CreateOrder{
		ServiceID:           "svc-1",
		OrderType:           domain.OrderTypeNewService,
		InstallationAddress: "1 Main St",
		PostalCode:          "1000",
		ContactPerson:       "Jane Doe",
		ContactPhone:        "+3200000000",
		ContactEmail:        "jane@acme.example",
		RequestedDate:       "2026-11-01",
	}
}

func TestOrderService_Create(t *testing.T) {
	api := newStubOrderBackend()
	rec := &stubRecorder{}
	svc := newOrderSvc(api, newStubGuard(), rec)

	res, err := svc.Create(context.Background(), ports.CreateOrderInput{SessionID: "sid", UserID: "u1", Order: sampleOrder()})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.AlreadyExisted || res.Order.Status != domain.OrderSubmitted {
		t.Fatalf("unexpected result: %+v", res)
	}
	if kinds := rec.kinds(); len(kinds) != 1 || kinds[0] != domain.ActivityOrderCreated {
		t.Fatalf("unexpected activity: %v", kinds)
	}
}

func TestOrderService_Create_IdempotentReplay(t *testing.T) {
	api := newStubOrderBackend()
	svc := newOrderSvc(api, newStubGuard(), &stubRecorder{})
	in := ports.CreateOrderInput{SessionID: "sid", IdempotencyKey: "key-1", Order: sampleOrder()}

	first, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}
	second, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("second Create returned error: %v", err)
	}
	if !second.AlreadyExisted || second.Order.ID != first.Order.ID {
		t.Fatalf("expected replay of %s, got %+v", first.Order.ID, second)
	}
	if api.created != 1 {
		t.Fatalf("expected one backend submission, got %d", api.created)
	}

	in.SessionID = "other-sid"
	third, _ := svc.Create(context.Background(), in)
	if third.AlreadyExisted {
		t.Fatalf("idempotency keys must not be shared across sessions")
	}
}

func TestOrderService_Cancel(t *testing.T) {
	api := newStubOrderBackend()
	svc := newOrderSvc(api, nil, &stubRecorder{})
	res, _ := svc.Create(context.Background(), ports.CreateOrderInput{Order: sampleOrder()})

	order, err := svc.Cancel(context.Background(), "u1", res.Order.ID)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if order.Status != domain.OrderCancelled {
		t.Fatalf("unexpected status: %s", order.Status)
	}
}

func TestOrderService_Cancel_RejectsFinalStates(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderInProgress, domain.OrderCompleted, domain.OrderCancelled, domain.OrderFailed} {
		api := newStubOrderBackend()
		api.orders["o1"] = &domain.Order{ID: "o1", OrderNumber: "ORD-1", Status: status}
		svc := newOrderSvc(api, nil, &stubRecorder{})

		if _, err := svc.Cancel(context.Background(), "u1", "o1"); !errors.Is(err, domain.ErrOrderNotCancellable) {
			t.Fatalf("status %s: expected ErrOrderNotCancellable, got %v", status, err)
		}
		if len(api.cancelled) != 0 {
			t.Fatalf("status %s: backend cancel must not be called", status)
		}
	}
}

func TestOrderService_SearchDefaults(t *testing.T) {
	api := newStubOrderBackend()
	svc := newOrderSvc(api, nil, nil)

	if _, err := svc.Search(context.Background(), domain.OrderSearch{Status: domain.OrderApproved}); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if api.lastSearch.Page != 1 || api.lastSearch.Limit != 20 {
		t.Fatalf("expected page 1 limit 20, got %+v", api.lastSearch)
	}
}

func TestOrderService_RecentDefaultLimit(t *testing.T) {
	api := newStubOrderBackend()
	svc := newOrderSvc(api, nil, nil)

	if _, err := svc.Recent(context.Background(), 0); err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if api.recentLimit != 10 {
		t.Fatalf("expected default limit 10, got %d", api.recentLimit)
	}
}

func TestOrderService_Dashboard(t *testing.T) {
	api := newStubOrderBackend()
	api.orders["o1"] = &domain.Order{ID: "o1", Status: domain.OrderApproved}
	api.orders["o2"] = &domain.Order{ID: "o2", Status: domain.OrderCompleted}
	svc := newOrderSvc(api, nil, nil)

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if d.Statistics.TotalOrderValue != 1200 {
		t.Fatalf("unexpected statistics: %+v", d.Statistics)
	}
	if len(d.RecentOrders) != 2 || len(d.PendingOrders) != 1 {
		t.Fatalf("unexpected dashboard: %+v", d)
	}
}

func TestOrderService_Dashboard_PropagatesFailure(t *testing.T) {
	api := newStubOrderBackend()
	api.pendingErr = domain.ErrServiceUnavailable
	svc := newOrderSvc(api, nil, nil)

	if _, err := svc.Dashboard(context.Background()); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}
