package store

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

// Fallback messages shown when the backend fails without a usable detail.
const (
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
)

// SessionStore owns the authenticated identity and its lifecycle. All state
// transitions happen under one mutex so a snapshot is always internally
// consistent.
type SessionStore struct {
	mu    sync.Mutex
	state ports.SessionSnapshot

	auth  ports.AuthGateway
	creds ports.CredentialStore
	log   zerolog.Logger
}

// NewSessionStore builds the store and rehydrates the identity and refresh
// token from durable storage, so a restart does not force a fresh login.
// Unreadable storage means starting signed out, never a construction error.
func NewSessionStore(auth ports.AuthGateway, creds ports.CredentialStore, log zerolog.Logger) *SessionStore {
	s := &SessionStore{auth: auth, creds: creds, log: log}

	saved, err := creds.Load(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("credential storage unreadable, starting signed out")
		return s
	}
	s.state.User = saved.User
	s.state.RefreshToken = saved.RefreshToken
	return s
}

// Snapshot returns a copy of the current session state.
func (s *SessionStore) Snapshot() ports.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	if s.state.User != nil {
		u := *s.state.User
		snap.User = &u
	}
	return snap
}

// Login exchanges credentials for a token pair, persists both tokens and the
// identity, and updates state. On failure the previous identity is kept and
// only Error changes.
func (s *SessionStore) Login(ctx context.Context, username, password string) (domain.User, error) {
	s.begin()

	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.fail(errorMessage(err, msgLoginFailed))
		s.log.Warn().Err(err).Str("username", username).Msg("login rejected")
		return domain.User{}, err
	}

	// Tokens and user are written as separate keys in the same handler;
	// each write is atomic on its own.
	if err := s.creds.SaveTokens(ctx, res.Tokens.Access, res.Tokens.Refresh); err != nil {
		s.log.Error().Err(err).Msg("persisting tokens failed")
	}
	if err := s.creds.SaveUser(ctx, res.User); err != nil {
		s.log.Error().Err(err).Msg("persisting user failed")
	}

	s.mu.Lock()
	u := res.User
	s.state.User = &u
	s.state.RefreshToken = res.Tokens.Refresh
	s.state.Loading = false
	s.mu.Unlock()

	s.log.Info().
		Str("username", res.User.Username).
		Str("role", string(res.User.Role)).
		Msg("login succeeded")
	return res.User, nil
}

// Register creates an account. The new identity lands in state, but no
// tokens are issued or persisted; the caller still has to send the user
// through the login view.
func (s *SessionStore) Register(ctx context.Context, input ports.RegisterAccountInput) (domain.User, error) {
	s.begin()

	user, err := s.auth.RegisterAccount(ctx, input)
	if err != nil {
		s.fail(errorMessage(err, msgRegistrationFailed))
		s.log.Warn().Err(err).Str("username", input.Username).Msg("registration rejected")
		return domain.User{}, err
	}

	s.mu.Lock()
	u := user
	s.state.User = &u
	s.state.Loading = false
	s.mu.Unlock()

	s.log.Info().Str("username", user.Username).Msg("account registered")
	return user, nil
}

// Logout clears the identity and wipes durable storage. It always succeeds,
// is idempotent and makes no network call.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.state.User = nil
	s.state.RefreshToken = ""
	s.mu.Unlock()

	if err := s.creds.Clear(context.Background()); err != nil {
		s.log.Error().Err(err).Msg("clearing credential storage failed")
	}
}

// ClearError dismisses a stale error banner without touching other fields.
func (s *SessionStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// RefreshAccessToken reads the persisted refresh token and exchanges it for
// a new access token, overwriting the persisted one. Purely advisory: an
// empty token with a nil error means nothing was stored, and any failure is
// reported to the caller without mutating session state or forcing logout.
func (s *SessionStore) RefreshAccessToken(ctx context.Context) (string, error) {
	refresh, err := s.creds.RefreshToken(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("reading refresh token failed")
		return "", err
	}
	if refresh == "" {
		return "", nil
	}

	access, err := s.auth.RefreshToken(ctx, refresh)
	if err != nil {
		s.log.Warn().Err(err).Msg("silent token refresh failed")
		return "", err
	}
	if err := s.creds.SaveAccessToken(ctx, access); err != nil {
		s.log.Error().Err(err).Msg("persisting refreshed access token failed")
		return "", err
	}
	return access, nil
}

func (s *SessionStore) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *SessionStore) fail(msg string) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = msg
	s.mu.Unlock()
}

// errorMessage prefers the backend's detail message and falls back to a
// fixed human-readable one for transport-level failures.
func errorMessage(err error, fallback string) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
