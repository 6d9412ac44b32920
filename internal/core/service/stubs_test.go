package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory session store
// ---------------------------------------------------------------------------

type memStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	cleared  []string
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]domain.Session)}
}

func (m *memStore) Save(_ context.Context, sid string, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = *s
	return nil
}

func (m *memStore) Load(_ context.Context, sid string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sid]
	if !ok || s.AccessToken == "" {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memStore) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	m.cleared = append(m.cleared, sid)
	return nil
}

// ---------------------------------------------------------------------------
// Activity recorder
// ---------------------------------------------------------------------------

type stubRecorder struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (r *stubRecorder) Record(e domain.ActivityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *stubRecorder) kinds() []domain.ActivityKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// ---------------------------------------------------------------------------
// Auth backend
// ---------------------------------------------------------------------------

type stubAuthBackend struct {
	loginGrant   *ports.TokenGrant
	loginErr     error
	refreshGrant *ports.TokenGrant
	refreshErr   error
	lastLogin    ports.LoginInput
	lastRefresh  string

	profile       *domain.UserProfile
	profileErr    error
	passwordMsg   string
	passwordErr   error
	passwordCalls int
}

func (b *stubAuthBackend) Login(_ context.Context, in ports.LoginInput) (*ports.TokenGrant, error) {
	b.lastLogin = in
	return b.loginGrant, b.loginErr
}

func (b *stubAuthBackend) Refresh(_ context.Context, token string) (*ports.TokenGrant, error) {
	b.lastRefresh = token
	return b.refreshGrant, b.refreshErr
}

func (b *stubAuthBackend) Me(context.Context) (*domain.UserProfile, error) {
	return b.profile, b.profileErr
}

func (b *stubAuthBackend) UpdateProfile(_ context.Context, in domain.UpdateProfile) (*domain.UserProfile, error) {
	if b.profileErr != nil {
		return nil, b.profileErr
	}
	p := *b.profile
	p.FirstName, p.LastName, p.Email, p.Phone = in.FirstName, in.LastName, in.Email, in.Phone
	return &p, nil
}

func (b *stubAuthBackend) ChangePassword(context.Context, domain.ChangePassword) (string, error) {
	b.passwordCalls++
	return b.passwordMsg, b.passwordErr
}

// ---------------------------------------------------------------------------
// Order backend
// ---------------------------------------------------------------------------

type stubOrderBackend struct {
	mu          sync.Mutex
	orders      map[string]*domain.Order
	created     int
	cancelled   []string
	lastSearch  domain.OrderSearch
	recentLimit int
	stats       *domain.OrderStatistics
	pendingErr  error
}

func newStubOrderBackend() *stubOrderBackend {
	return &stubOrderBackend{
		orders: make(map[string]*domain.Order),
		stats:  &domain.OrderStatistics{TotalOrderValue: 1200, PendingOrdersCount: 1, Currency: "EUR"},
	}
}

func (b *stubOrderBackend) Create(_ context.Context, in domain.CreateOrder) (*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created++
	o := &domain.Order{
		ID:          fmt.Sprintf("order-%d", b.created),
		OrderNumber: fmt.Sprintf("ORD-%04d", b.created),
		OrderType:   in.OrderType,
		Status:      domain.OrderSubmitted,
		Service:     domain.OrderServiceRef{ID: in.ServiceID},
	}
	b.orders[o.ID] = o
	return o, nil
}

func (b *stubOrderBackend) Get(_ context.Context, id string) (*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

func (b *stubOrderBackend) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if o.OrderNumber == number {
			clone := *o
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *stubOrderBackend) List(context.Context) ([]domain.Order, error) {
	return b.all(), nil
}

func (b *stubOrderBackend) Paged(_ context.Context, page, limit int) (*domain.Page[domain.Order], error) {
	p := domain.Paginate(b.all(), page, limit)
	return &p, nil
}

func (b *stubOrderBackend) Search(_ context.Context, in domain.OrderSearch) (*domain.Page[domain.Order], error) {
	b.lastSearch = in
	p := domain.Paginate(b.all(), in.Page, in.Limit)
	return &p, nil
}

func (b *stubOrderBackend) Cancel(_ context.Context, id string) (*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = domain.OrderCancelled
	b.cancelled = append(b.cancelled, id)
	clone := *o
	return &clone, nil
}

func (b *stubOrderBackend) Pending(context.Context) ([]domain.Order, error) {
	if b.pendingErr != nil {
		return nil, b.pendingErr
	}
	var out []domain.Order
	for _, o := range b.all() {
		if o.Status.Pending() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (b *stubOrderBackend) Recent(_ context.Context, limit int) ([]domain.Order, error) {
	b.mu.Lock()
	b.recentLimit = limit
	b.mu.Unlock()
	return b.all(), nil
}

func (b *stubOrderBackend) Statistics(context.Context) (*domain.OrderStatistics, error) {
	return b.stats, nil
}

func (b *stubOrderBackend) Update(_ context.Context, id string, in domain.UpdateOrder) (*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.ContactPerson != "" {
		o.ContactPerson = in.ContactPerson
	}
	clone := *o
	return &clone, nil
}

func (b *stubOrderBackend) all() []domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, *o)
	}
	return out
}

// ---------------------------------------------------------------------------
// Submit guard
// ---------------------------------------------------------------------------

type stubGuard struct {
	keys map[string]string
}

func newStubGuard() *stubGuard {
	return &stubGuard{keys: make(map[string]string)}
}

func (g *stubGuard) Lookup(_ context.Context, sid, key string) (string, bool, error) {
	id, ok := g.keys[sid+"|"+key]
	return id, ok, nil
}

func (g *stubGuard) Remember(_ context.Context, sid, key, orderID string) error {
	g.keys[sid+"|"+key] = orderID
	return nil
}

// ---------------------------------------------------------------------------
// Catalog backend and cache
// ---------------------------------------------------------------------------

type stubCatalogBackend struct {
	services        []domain.ServiceSummary
	categories      []domain.ServiceCategory
	types           []string
	categoriesCalls int
	typesCalls      int
}

func (b *stubCatalogBackend) Services(context.Context) ([]domain.ServiceSummary, error) {
	return b.services, nil
}

func (b *stubCatalogBackend) ServicesPaged(_ context.Context, page, limit int) (*domain.Page[domain.ServiceSummary], error) {
	p := domain.Paginate(b.services, page, limit)
	return &p, nil
}

func (b *stubCatalogBackend) Service(_ context.Context, id string) (*domain.ServiceDetail, error) {
	for _, s := range b.services {
		if s.ID == id {
			return &domain.ServiceDetail{ServiceSummary: s}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *stubCatalogBackend) Categories(context.Context) ([]domain.ServiceCategory, error) {
	b.categoriesCalls++
	return b.categories, nil
}

func (b *stubCatalogBackend) Category(_ context.Context, id string) (*domain.ServiceCategory, error) {
	for _, c := range b.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *stubCatalogBackend) Types(context.Context) ([]string, error) {
	b.typesCalls++
	return b.types, nil
}

type memCatalogCache struct {
	categories []domain.ServiceCategory
	types      []string
}

func (c *memCatalogCache) Categories(context.Context) ([]domain.ServiceCategory, bool) {
	return c.categories, c.categories != nil
}

func (c *memCatalogCache) SetCategories(_ context.Context, v []domain.ServiceCategory) {
	c.categories = v
}

func (c *memCatalogCache) Types(context.Context) ([]string, bool) {
	return c.types, c.types != nil
}

func (c *memCatalogCache) SetTypes(_ context.Context, v []string) {
	c.types = v
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func signedToken(exp time.Time) string {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
	s, _ := t.SignedString([]byte("test-secret"))
	return s
}
