package backend

import (
	"context"
	"net/http"

	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

// AuthAPI implements ports.AuthBackend.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

func (a *AuthAPI) Login(ctx context.Context, in ports.LoginInput) (*ports.TokenGrant, error) {
	return decode[ports.TokenGrant](a.c.send(ctx, http.MethodPost, "/auth/login", "/auth/login", in))
}

func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*ports.TokenGrant, error) {
	body := map[string]string{"refreshToken": refreshToken}
	return decode[ports.TokenGrant](a.c.send(ctx, http.MethodPost, "/auth/refresh", "/auth/refresh", body))
}

func (a *AuthAPI) Me(ctx context.Context) (*domain.UserProfile, error) {
	return decode[domain.UserProfile](a.c.get(ctx, "/auth/me", "/auth/me", nil))
}

func (a *AuthAPI) UpdateProfile(ctx context.Context, in domain.UpdateProfile) (*domain.UserProfile, error) {
	return decode[domain.UserProfile](a.c.send(ctx, http.MethodPut, "/auth/profile", "/auth/profile", in))
}

// ChangePassword returns the confirmation message of the backend.
func (a *AuthAPI) ChangePassword(ctx context.Context, in domain.ChangePassword) (string, error) {
	res, err := decode[struct {
		Message string `json:"message"`
	}](a.c.send(ctx, http.MethodPost, "/auth/change-password", "/auth/change-password", in))
	if err != nil {
		return "", err
	}
	return res.Message, nil
}
