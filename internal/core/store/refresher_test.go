package store

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

// stubSession only counts refresh calls; the rest of the interface is inert.
type stubSession struct {
	refreshed int
}

func (s *stubSession) Snapshot() ports.SessionSnapshot { return ports.SessionSnapshot{} }

func (s *stubSession) Login(context.Context, string, string) (domain.User, error) {
	return domain.User{}, nil
}

func (s *stubSession) Register(context.Context, ports.RegisterAccountInput) (domain.User, error) {
	return domain.User{}, nil
}

func (s *stubSession) Logout() {}

func (s *stubSession) ClearError() {}

func (s *stubSession) RefreshAccessToken(context.Context) (string, error) {
	s.refreshed++
	return "fresh", nil
}

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{"exp": time.Now().Add(ttl).Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestRefresher_ExpiringSoon(t *testing.T) {
	r := NewRefresher(&stubSession{}, &stubCreds{}, time.Minute, 2*time.Minute, zerolog.Nop())

	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{"far from expiry", signedToken(t, time.Hour), false},
		{"inside leeway", signedToken(t, 30*time.Second), true},
		{"already expired", signedToken(t, -time.Minute), true},
		{"unparseable", "not-a-jwt", true},
	}
	for _, tc := range cases {
		if got := r.expiringSoon(tc.token); got != tc.want {
			t.Errorf("%s: expiringSoon = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRefresher_ExpiringSoon_NoExpiryClaim(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "worker1"}).
		SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	r := NewRefresher(&stubSession{}, &stubCreds{}, time.Minute, 2*time.Minute, zerolog.Nop())
	if !r.expiringSoon(signed) {
		t.Fatalf("a token without an exp claim must count as expiring")
	}
}

func TestRefresher_TickRefreshesOnlyWhenNeeded(t *testing.T) {
	cases := []struct {
		name   string
		access string
		want   int
	}{
		{"no stored token", "", 0},
		{"fresh token", signedToken(t, time.Hour), 0},
		{"expiring token", signedToken(t, 30*time.Second), 1},
	}
	for _, tc := range cases {
		session := &stubSession{}
		creds := &stubCreds{creds: ports.Credentials{AccessToken: tc.access}}
		r := NewRefresher(session, creds, time.Minute, 2*time.Minute, zerolog.Nop())

		r.tick(context.Background())

		if session.refreshed != tc.want {
			t.Errorf("%s: refresh calls = %d, want %d", tc.name, session.refreshed, tc.want)
		}
	}
}

func TestNewRefresher_AppliesDefaults(t *testing.T) {
	r := NewRefresher(&stubSession{}, &stubCreds{}, 0, 0, zerolog.Nop())
	if r.interval != defaultRefreshInterval {
		t.Fatalf("expected default interval, got %s", r.interval)
	}
	if r.leeway != defaultRefreshLeeway {
		t.Fatalf("expected default leeway, got %s", r.leeway)
	}
}
