package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

// IdempotencyHeader carries the client's double-submit key on order creation.
const IdempotencyHeader = "Idempotency-Key"

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// --- Request / Response types ---

type createOrderRequest struct {
	ServiceID              string           `json:"serviceId" validate:"required"`
	OrderType              domain.OrderType `json:"orderType" validate:"required,oneof=NEW_SERVICE UPGRADE DOWNGRADE CANCELLATION MODIFICATION"`
	RequestedBandwidthMbps *int             `json:"requestedBandwidthMbps" validate:"omitempty,gt=0"`
	InstallationAddress    string           `json:"installationAddress" validate:"required"`
	PostalCode             string           `json:"postalCode" validate:"required"`
	ContactPerson          string           `json:"contactPerson" validate:"required"`
	ContactPhone           string           `json:"contactPhone" validate:"required"`
	ContactEmail           string           `json:"contactEmail" validate:"required,email"`
	RequestedDate          string           `json:"requestedDate" validate:"required"`
	SpecialRequirements    string           `json:"specialRequirements"`
	Configuration          map[string]any   `json:"configuration"`
}

func (r createOrderRequest) toDomain() domain.CreateOrder {
	return domain.CreateOrder{
		ServiceID:              r.ServiceID,
		OrderType:              r.OrderType,
		RequestedBandwidthMbps: r.RequestedBandwidthMbps,
		InstallationAddress:    r.InstallationAddress,
		PostalCode:             r.PostalCode,
		ContactPerson:          r.ContactPerson,
		ContactPhone:           r.ContactPhone,
		ContactEmail:           r.ContactEmail,
		RequestedDate:          r.RequestedDate,
		SpecialRequirements:    r.SpecialRequirements,
		Configuration:          r.Configuration,
	}
}

type updateOrderRequest struct {
	RequestedBandwidthMbps *int           `json:"requestedBandwidthMbps" validate:"omitempty,gt=0"`
	InstallationAddress    string         `json:"installationAddress"`
	PostalCode             string         `json:"postalCode"`
	ContactPerson          string         `json:"contactPerson"`
	ContactPhone           string         `json:"contactPhone"`
	ContactEmail           string         `json:"contactEmail" validate:"omitempty,email"`
	RequestedDate          string         `json:"requestedDate"`
	SpecialRequirements    string         `json:"specialRequirements"`
	Configuration          map[string]any `json:"configuration"`
}

type createOrderResponse struct {
	Order          *domain.Order `json:"order"`
	AlreadyExisted bool          `json:"alreadyExisted"`
	Links          orderLinks    `json:"_links"`
}

type orderLinks struct {
	Self string `json:"self"`
}

// Create handles POST /api/orders.
//
// @Summary      Submit an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string              false  "Key that makes a repeated submission return the first order"
// @Param        body             body      createOrderRequest  true   "Order details"
// @Success      201              {object}  createOrderResponse
// @Success      200              {object}  createOrderResponse  "Replay of an earlier submission"
// @Failure      401              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	sid, user, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateOrderInput{
		SessionID:      sid,
		UserID:         user.ID,
		IdempotencyKey: c.Request().Header.Get(IdempotencyHeader),
		Order:          req.toDomain(),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, createOrderResponse{
		Order:          result.Order,
		AlreadyExisted: result.AlreadyExisted,
		Links:          orderLinks{Self: "/api/orders/" + result.Order.ID},
	})
}

// List handles GET /api/orders.
//
// @Summary      List the company's orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}  domain.Order
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Paged handles GET /api/orders/paged.
//
// @Summary      List orders page by page
// @Tags         orders
// @Produce      json
// @Param        page   query     int  false  "1-based page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  domain.Page[domain.Order]
// @Router       /api/orders/paged [get]
func (h *OrderHandler) Paged(c echo.Context) error {
	page, limit, err := pagingParams(c)
	if err != nil {
		return err
	}
	res, err := h.service.Paged(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Search handles GET /api/orders/search.
//
// @Summary      Search orders
// @Tags         orders
// @Produce      json
// @Param        status     query     string  false  "Order status"
// @Param        orderType  query     string  false  "Order type"
// @Param        serviceId  query     string  false  "Service id"
// @Param        startDate  query     string  false  "Created on or after"
// @Param        endDate    query     string  false  "Created on or before"
// @Param        minCost    query     number  false  "Minimum total cost"
// @Param        maxCost    query     number  false  "Maximum total cost"
// @Param        page       query     int     false  "1-based page"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {object}  domain.Page[domain.Order]
// @Failure      400        {object}  map[string]string
// @Router       /api/orders/search [get]
func (h *OrderHandler) Search(c echo.Context) error {
	in := domain.OrderSearch{
		Status:    domain.OrderStatus(c.QueryParam("status")),
		OrderType: domain.OrderType(c.QueryParam("orderType")),
		ServiceID: c.QueryParam("serviceId"),
		StartDate: c.QueryParam("startDate"),
		EndDate:   c.QueryParam("endDate"),
	}
	var err error
	if in.Page, in.Limit, err = pagingParams(c); err != nil {
		return err
	}
	if in.MinCost, err = optionalFloat(c, "minCost"); err != nil {
		return err
	}
	if in.MaxCost, err = optionalFloat(c, "maxCost"); err != nil {
		return err
	}

	res, err := h.service.Search(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  map[string]string
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// GetByNumber handles GET /api/orders/number/:orderNumber.
//
// @Summary      Get an order by its number
// @Tags         orders
// @Produce      json
// @Param        orderNumber  path      string  true  "Order number (e.g. ORD-000123)"
// @Success      200          {object}  domain.Order
// @Failure      404          {object}  map[string]string
// @Router       /api/orders/number/{orderNumber} [get]
func (h *OrderHandler) GetByNumber(c echo.Context) error {
	order, err := h.service.GetByNumber(c.Request().Context(), c.Param("orderNumber"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Update handles PUT /api/orders/:id.
//
// @Summary      Update an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Order id"
// @Param        body  body      updateOrderRequest  true  "Fields to change"
// @Success      200   {object}  domain.Order
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c echo.Context) error {
	_, user, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.Update(c.Request().Context(), user.ID, c.Param("id"), domain.UpdateOrder{
		RequestedBandwidthMbps: req.RequestedBandwidthMbps,
		InstallationAddress:    req.InstallationAddress,
		PostalCode:             req.PostalCode,
		ContactPerson:          req.ContactPerson,
		ContactPhone:           req.ContactPhone,
		ContactEmail:           req.ContactEmail,
		RequestedDate:          req.RequestedDate,
		SpecialRequirements:    req.SpecialRequirements,
		Configuration:          req.Configuration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel handles POST /api/orders/:id/cancel.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	_, user, err := ctxSession(c)
	if err != nil {
		return err
	}

	order, err := h.service.Cancel(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Pending handles GET /api/orders/pending.
//
// @Summary      Orders still awaiting completion
// @Tags         orders
// @Produce      json
// @Success      200  {array}  domain.Order
// @Router       /api/orders/pending [get]
func (h *OrderHandler) Pending(c echo.Context) error {
	orders, err := h.service.Pending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Recent handles GET /api/orders/recent.
//
// @Summary      Most recent orders
// @Tags         orders
// @Produce      json
// @Param        limit  query    int  false  "Number of orders (default 10)"
// @Success      200    {array}  domain.Order
// @Router       /api/orders/recent [get]
func (h *OrderHandler) Recent(c echo.Context) error {
	_, limit, err := pagingParams(c)
	if err != nil {
		return err
	}
	orders, err := h.service.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Statistics handles GET /api/orders/statistics.
//
// @Summary      Order statistics
// @Tags         orders
// @Produce      json
// @Success      200  {object}  domain.OrderStatistics
// @Router       /api/orders/statistics [get]
func (h *OrderHandler) Statistics(c echo.Context) error {
	stats, err := h.service.Statistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Dashboard handles GET /api/dashboard.
//
// @Summary      Dashboard aggregate
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  domain.Dashboard
// @Router       /api/dashboard [get]
func (h *OrderHandler) Dashboard(c echo.Context) error {
	d, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
