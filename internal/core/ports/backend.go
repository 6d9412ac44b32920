package ports

import (
	"context"

	"github.com/netondemand/portal/internal/core/domain"
)

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
	RememberMe      bool   `json:"rememberMe"`
}

// TokenGrant is what the backend answers on login and refresh. Login nests the
// user under "user", refresh under "userProfile"; Profile returns whichever is set.
type TokenGrant struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	TokenType    string              `json:"tokenType"`
	ExpiresIn    int64               `json:"expiresIn"`
	User         *domain.UserProfile `json:"user,omitempty"`
	UserProfile  *domain.UserProfile `json:"userProfile,omitempty"`
}

func (g TokenGrant) Profile() *domain.UserProfile {
	if g.User != nil {
		return g.User
	}
	return g.UserProfile
}

// AuthBackend covers the /auth endpoints of the backend.
type AuthBackend interface {
	Login(ctx context.Context, in LoginInput) (*TokenGrant, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error)
	Me(ctx context.Context) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, in domain.UpdateProfile) (*domain.UserProfile, error)
	ChangePassword(ctx context.Context, in domain.ChangePassword) (string, error)
}

// CatalogBackend covers the /services endpoints of the backend.
type CatalogBackend interface {
	Services(ctx context.Context) ([]domain.ServiceSummary, error)
	ServicesPaged(ctx context.Context, page, limit int) (*domain.Page[domain.ServiceSummary], error)
	Service(ctx context.Context, id string) (*domain.ServiceDetail, error)
	Categories(ctx context.Context) ([]domain.ServiceCategory, error)
	Category(ctx context.Context, id string) (*domain.ServiceCategory, error)
	Types(ctx context.Context) ([]string, error)
}

// OrderBackend covers the /orders endpoints of the backend.
type OrderBackend interface {
	Create(ctx context.Context, in domain.CreateOrder) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Paged(ctx context.Context, page, limit int) (*domain.Page[domain.Order], error)
	Search(ctx context.Context, in domain.OrderSearch) (*domain.Page[domain.Order], error)
	Cancel(ctx context.Context, id string) (*domain.Order, error)
	Pending(ctx context.Context) ([]domain.Order, error)
	Recent(ctx context.Context, limit int) ([]domain.Order, error)
	Statistics(ctx context.Context) (*domain.OrderStatistics, error)
	Update(ctx context.Context, id string, in domain.UpdateOrder) (*domain.Order, error)
}
