package ports

import (
	"context"

	"github.com/fullstacktime/projectman/internal/core/domain"
)

// Credentials is everything persisted across restarts: both tokens plus the
// identity of the signed-in user.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// CredentialStore is the durable client-side storage behind the session.
// Writes to individual keys are atomic; writes across keys are not, which is
// acceptable because related keys are always written in the same handler.
type CredentialStore interface {
	// Load rehydrates whatever survived the last run. Implementations must
	// treat an unreadable or corrupt user record as absent, not as an error.
	Load(ctx context.Context) (Credentials, error)
	SaveTokens(ctx context.Context, access, refresh string) error
	SaveAccessToken(ctx context.Context, access string) error
	SaveUser(ctx context.Context, user domain.User) error
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	// Clear removes the user record and both tokens.
	Clear(ctx context.Context) error
}
