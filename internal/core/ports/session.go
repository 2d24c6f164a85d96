package ports

import (
	"context"

	"github.com/fullstacktime/projectman/internal/core/domain"
)

// SessionSnapshot is a copy of the session state at one instant. Loading is
// true only while a login or register request is in flight; Error holds the
// message of the last failed operation until it is cleared.
type SessionSnapshot struct {
	User         *domain.User
	RefreshToken string
	Loading      bool
	Error        string
}

// Session is the authentication state container the view layer reads from
// and dispatches against.
type Session interface {
	Snapshot() SessionSnapshot
	// Login exchanges credentials for tokens and persists both tokens and
	// the identity. Deciding where to navigate afterwards is the caller's
	// job, based on the returned user's role.
	Login(ctx context.Context, username, password string) (domain.User, error)
	// Register creates an account. It does not authenticate: no tokens are
	// issued or persisted.
	Register(ctx context.Context, input RegisterAccountInput) (domain.User, error)
	// Logout is synchronous, idempotent and makes no network call.
	Logout()
	// ClearError dismisses a stale error without touching other fields.
	ClearError()
	// RefreshAccessToken exchanges the stored refresh token for a new access
	// token and persists it. Best effort: an empty token with a nil error
	// means no refresh token was stored; failures never mutate session state.
	RefreshAccessToken(ctx context.Context) (string, error)
}
