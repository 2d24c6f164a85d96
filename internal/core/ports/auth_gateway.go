package ports

import (
	"context"

	"github.com/fullstacktime/projectman/internal/core/domain"
)

// RegisterAccountInput carries the fields of the account-creation form.
type RegisterAccountInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// TokenPair is the backend's response to a successful credential exchange.
type TokenPair struct {
	Access  string
	Refresh string
}

// LoginResult couples the issued tokens with the identity claims the backend
// returns alongside them.
type LoginResult struct {
	Tokens TokenPair
	User   domain.User
}

// AuthGateway is the remote authentication API.
type AuthGateway interface {
	RegisterAccount(ctx context.Context, input RegisterAccountInput) (domain.User, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	// RefreshToken exchanges a refresh token for a fresh access token.
	RefreshToken(ctx context.Context, refresh string) (string, error)
}
