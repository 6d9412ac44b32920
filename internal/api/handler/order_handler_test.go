package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

const validOrderBody = `{
	"serviceId": "svc-1",
	"orderType": "NEW_SERVICE",
	"requestedBandwidthMbps": 500,
	"installationAddress": "1 Main St",
	"postalCode": "1000",
	"contactPerson": "Jane Doe",
	"contactPhone": "+3200000000",
	"contactEmail": "jane@acme.example",
	"requestedDate": "2026-11-01"
}`

func TestOrderHandler_Create(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		createFn: func(_ context.Context, in ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
			if in.SessionID != "sid-1" || in.UserID != "u1" || in.IdempotencyKey != "key-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Order.RequestedBandwidthMbps == nil || *in.Order.RequestedBandwidthMbps != 500 {
				t.Fatalf("bandwidth not mapped: %+v", in.Order)
			}
			return &ports.CreateOrderResult{Order: &domain.Order{ID: "o1", OrderNumber: "ORD-0001", Status: domain.OrderSubmitted}}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/api/orders", validOrderBody)
	c.Request().Header.Set(IdempotencyHeader, "key-1")
	signIn(c)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp createOrderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Order.OrderNumber != "ORD-0001" || resp.Links.Self != "/api/orders/o1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestOrderHandler_Create_ReplayAnswers200(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		createFn: func(context.Context, ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
			return &ports.CreateOrderResult{Order: &domain.Order{ID: "o1"}, AlreadyExisted: true}, nil
		},
	}
	c, rec := newJSONContext(e, http.MethodPost, "/api/orders", validOrderBody)
	signIn(c)

	if err := NewOrderHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a replay, got %d", rec.Code)
	}
}

func TestOrderHandler_Create_ValidationMessages(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		createFn: func(context.Context, ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newJSONContext(e, http.MethodPost, "/api/orders", `{"serviceId":"svc-1","orderType":"NEW_SERVICE","contactEmail":"not-an-email"}`)
	signIn(c)

	err := NewOrderHandler(stub).Create(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]string{
		"installationAddress": "Installation address is required",
		"postalCode":          "Postal code is required",
		"contactPerson":       "Contact person is required",
		"contactPhone":        "Contact phone is required",
		"contactEmail":        "Valid email is required",
		"requestedDate":       "Requested date is required",
	}
	for field, msg := range want {
		if ve.Fields[field] != msg {
			t.Fatalf("field %s: expected %q, got %q", field, msg, ve.Fields[field])
		}
	}
}

func TestOrderHandler_Create_RequiresSession(t *testing.T) {
	e := newEcho()
	c, _ := newJSONContext(e, http.MethodPost, "/api/orders", validOrderBody)

	if err := NewOrderHandler(&stubOrderService{}).Create(c); err == nil {
		t.Fatalf("expected error without session")
	}
}

func TestOrderHandler_Cancel_NotCancellable(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		cancelFn: func(_ context.Context, userID, id string) (*domain.Order, error) {
			if userID != "u1" || id != "o1" {
				t.Fatalf("unexpected args: %s %s", userID, id)
			}
			return nil, domain.ErrOrderNotCancellable
		},
	}
	c, _ := newJSONContext(e, http.MethodPost, "/api/orders/o1/cancel", "")
	c.SetParamNames("id")
	c.SetParamValues("o1")
	signIn(c)

	if err := NewOrderHandler(stub).Cancel(c); !errors.Is(err, domain.ErrOrderNotCancellable) {
		t.Fatalf("expected ErrOrderNotCancellable, got %v", err)
	}
}

func TestOrderHandler_Search_ParsesFilters(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		searchFn: func(_ context.Context, in domain.OrderSearch) (*domain.Page[domain.Order], error) {
			if in.Status != domain.OrderApproved || in.Page != 2 || in.Limit != 5 {
				t.Fatalf("unexpected search: %+v", in)
			}
			if in.MinCost == nil || *in.MinCost != 99.5 || in.MaxCost != nil {
				t.Fatalf("unexpected cost filters: %+v", in)
			}
			return &domain.Page[domain.Order]{Pagination: domain.Pagination{Page: 2, Limit: 5}}, nil
		},
	}
	c, rec := newJSONContext(e, http.MethodGet, "/api/orders/search?status=APPROVED&page=2&limit=5&minCost=99.5", "")

	if err := NewOrderHandler(stub).Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOrderHandler_Search_RejectsBadNumbers(t *testing.T) {
	e := newEcho()
	c, _ := newJSONContext(e, http.MethodGet, "/api/orders/search?minCost=lots", "")

	if err := NewOrderHandler(&stubOrderService{}).Search(c); err == nil {
		t.Fatalf("expected 400 for a non-numeric minCost")
	}
}

func TestOrderHandler_Recent_PassesLimit(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		recentFn: func(_ context.Context, limit int) ([]domain.Order, error) {
			if limit != 3 {
				t.Fatalf("expected limit 3, got %d", limit)
			}
			return []domain.Order{{ID: "o1"}}, nil
		},
	}
	c, rec := newJSONContext(e, http.MethodGet, "/api/orders/recent?limit=3", "")

	if err := NewOrderHandler(stub).Recent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
