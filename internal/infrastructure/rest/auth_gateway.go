package rest

import (
	"context"
	"net/http"

	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

// AuthGateway implements ports.AuthGateway against the backend's auth
// endpoints. None of them require a bearer credential.
type AuthGateway struct {
	c *Client
}

func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{c: c}
}

func (g *AuthGateway) RegisterAccount(ctx context.Context, input ports.RegisterAccountInput) (domain.User, error) {
	payload := struct {
		Username string      `json:"username"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Role     domain.Role `json:"role"`
	}{input.Username, input.Email, input.Password, input.Role}

	var resp struct {
		ID       int         `json:"id"`
		Username string      `json:"username"`
		Email    string      `json:"email"`
		Role     domain.Role `json:"role"`
	}
	if err := g.c.doJSON(ctx, http.MethodPost, "/api/auth/register/", payload, &resp, false); err != nil {
		return domain.User{}, err
	}
	return domain.User{Username: resp.Username, Role: resp.Role}, nil
}

func (g *AuthGateway) Login(ctx context.Context, username, password string) (ports.LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}

	var resp struct {
		Access   string      `json:"access"`
		Refresh  string      `json:"refresh"`
		Username string      `json:"username"`
		Role     domain.Role `json:"role"`
	}
	if err := g.c.doJSON(ctx, http.MethodPost, "/api/token/", payload, &resp, false); err != nil {
		return ports.LoginResult{}, err
	}
	return ports.LoginResult{
		Tokens: ports.TokenPair{Access: resp.Access, Refresh: resp.Refresh},
		User:   domain.User{Username: resp.Username, Role: resp.Role},
	}, nil
}

func (g *AuthGateway) RefreshToken(ctx context.Context, refresh string) (string, error) {
	payload := map[string]string{"refresh": refresh}

	var resp struct {
		Access string `json:"access"`
	}
	if err := g.c.doJSON(ctx, http.MethodPost, "/api/token/refresh/", payload, &resp, false); err != nil {
		return "", err
	}
	return resp.Access, nil
}
