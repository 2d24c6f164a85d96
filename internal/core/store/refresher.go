package store

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/fullstacktime/projectman/internal/core/ports"
)

const (
	defaultRefreshInterval = time.Minute
	defaultRefreshLeeway   = 2 * time.Minute
)

// Refresher keeps the persisted access token fresh in the background. It is
// purely advisory: a failed refresh is logged and retried on the next tick,
// never surfaced to the user and never a reason to log out.
type Refresher struct {
	session  ports.Session
	creds    ports.CredentialStore
	interval time.Duration
	leeway   time.Duration
	log      zerolog.Logger
}

// NewRefresher builds a refresher that checks the access token every
// interval and refreshes it once it is within leeway of expiring.
func NewRefresher(session ports.Session, creds ports.CredentialStore, interval, leeway time.Duration, log zerolog.Logger) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if leeway <= 0 {
		leeway = defaultRefreshLeeway
	}
	return &Refresher{session: session, creds: creds, interval: interval, leeway: leeway, log: log}
}

// Start launches the refresh loop. It stops when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	access, err := r.creds.AccessToken(ctx)
	if err != nil || access == "" {
		return
	}
	if !r.expiringSoon(access) {
		return
	}
	if _, err := r.session.RefreshAccessToken(ctx); err != nil {
		r.log.Debug().Err(err).Msg("background refresh will retry on next tick")
	}
}

// expiringSoon inspects the token's exp claim without verifying the
// signature; verification is the backend's job. A token that cannot be
// parsed, or carries no expiry, is treated as expiring so a refresh gets
// attempted.
func (r *Refresher) expiringSoon(access string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) < r.leeway
}
