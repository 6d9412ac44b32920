package domain

// OrderType is the kind of change an order requests.
type OrderType string

const (
	OrderTypeNewService   OrderType = "NEW_SERVICE"
	OrderTypeUpgrade      OrderType = "UPGRADE"
	OrderTypeDowngrade    OrderType = "DOWNGRADE"
	OrderTypeCancellation OrderType = "CANCELLATION"
	OrderTypeModification OrderType = "MODIFICATION"
)

// OrderStatus represents the lifecycle state of an order on the backend.
type OrderStatus string

const (
	OrderSubmitted  OrderStatus = "SUBMITTED"
	OrderApproved   OrderStatus = "APPROVED"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderFailed     OrderStatus = "FAILED"
)

// cancellable lists the states from which a customer may still cancel.
var cancellable = map[OrderStatus]bool{
	OrderSubmitted: true,
	OrderApproved:  true,
}

// CanCancel reports whether an order in status s may be cancelled.
func (s OrderStatus) CanCancel() bool {
	return cancellable[s]
}

// Pending reports whether the order still awaits completion.
func (s OrderStatus) Pending() bool {
	return s == OrderSubmitted || s == OrderApproved || s == OrderInProgress
}

type OrderServiceRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ServiceType string `json:"serviceType"`
}

type OrderServiceInstance struct {
	ID           string `json:"id"`
	InstanceName string `json:"instanceName"`
	Status       string `json:"status"`
}

type OrderUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type OrderCompany struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Order is a customer request for provisioning, modification or cancellation
// of a service instance.
type Order struct {
	ID                      string                `json:"id"`
	OrderNumber             string                `json:"orderNumber"`
	OrderType               OrderType             `json:"orderType"`
	Status                  OrderStatus           `json:"status"`
	RequestedBandwidthMbps  *int                  `json:"requestedBandwidthMbps,omitempty"`
	InstallationAddress     string                `json:"installationAddress"`
	PostalCode              string                `json:"postalCode"`
	ContactPerson           string                `json:"contactPerson"`
	ContactPhone            string                `json:"contactPhone"`
	ContactEmail            string                `json:"contactEmail"`
	RequestedDate           string                `json:"requestedDate"`
	EstimatedCompletionDate string                `json:"estimatedCompletionDate,omitempty"`
	ActualCompletionDate    string                `json:"actualCompletionDate,omitempty"`
	SpecialRequirements     string                `json:"specialRequirements,omitempty"`
	TotalCost               float64               `json:"totalCost"`
	Notes                   string                `json:"notes,omitempty"`
	WorkflowID              string                `json:"workflowId,omitempty"`
	CreatedAt               string                `json:"createdAt"`
	UpdatedAt               string                `json:"updatedAt"`
	Service                 OrderServiceRef       `json:"service"`
	ServiceInstance         *OrderServiceInstance `json:"serviceInstance,omitempty"`
	User                    OrderUser             `json:"user"`
	Company                 OrderCompany          `json:"company"`
}

// CreateOrder is the body of POST /orders.
type CreateOrder struct {
	ServiceID              string         `json:"serviceId"`
	OrderType              OrderType      `json:"orderType"`
	RequestedBandwidthMbps *int           `json:"requestedBandwidthMbps,omitempty"`
	InstallationAddress    string         `json:"installationAddress"`
	PostalCode             string         `json:"postalCode"`
	ContactPerson          string         `json:"contactPerson"`
	ContactPhone           string         `json:"contactPhone"`
	ContactEmail           string         `json:"contactEmail"`
	RequestedDate          string         `json:"requestedDate"`
	SpecialRequirements    string         `json:"specialRequirements,omitempty"`
	Configuration          map[string]any `json:"configuration,omitempty"`
}

// UpdateOrder is the partial body of PUT /orders/{id}.
type UpdateOrder struct {
	RequestedBandwidthMbps *int           `json:"requestedBandwidthMbps,omitempty"`
	InstallationAddress    string         `json:"installationAddress,omitempty"`
	PostalCode             string         `json:"postalCode,omitempty"`
	ContactPerson          string         `json:"contactPerson,omitempty"`
	ContactPhone           string         `json:"contactPhone,omitempty"`
	ContactEmail           string         `json:"contactEmail,omitempty"`
	RequestedDate          string         `json:"requestedDate,omitempty"`
	SpecialRequirements    string         `json:"specialRequirements,omitempty"`
	Configuration          map[string]any `json:"configuration,omitempty"`
}

// OrderSearch carries the optional order filters.
type OrderSearch struct {
	Status    OrderStatus `query:"status"`
	OrderType OrderType   `query:"orderType"`
	ServiceID string      `query:"serviceId"`
	StartDate string      `query:"startDate"`
	EndDate   string      `query:"endDate"`
	MinCost   *float64    `query:"minCost"`
	MaxCost   *float64    `query:"maxCost"`
	Page      int         `query:"page"`
	Limit     int         `query:"limit"`
}

// OrderStatistics is the company-wide order summary.
type OrderStatistics struct {
	TotalOrderValue    float64 `json:"totalOrderValue"`
	PendingOrdersCount int     `json:"pendingOrdersCount"`
	RecentOrdersCount  int     `json:"recentOrdersCount"`
	Currency           string  `json:"currency"`
}

// Dashboard is the aggregate shown on the portal landing view.
type Dashboard struct {
	Statistics    OrderStatistics `json:"statistics"`
	RecentOrders  []Order         `json:"recentOrders"`
	PendingOrders []Order         `json:"pendingOrders"`
}
