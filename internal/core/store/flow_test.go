package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fullstacktime/projectman/internal/apitest"
	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
	"github.com/fullstacktime/projectman/internal/infrastructure/rest"
	"github.com/fullstacktime/projectman/internal/infrastructure/storage"
)

type fixture struct {
	backend  *apitest.Server
	creds    *storage.MemoryStore
	session  *SessionStore
	projects *ProjectStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := apitest.New()
	t.Cleanup(backend.Close)
	backend.Seed("worker1", "w1@example.com", "secret123", "WORKER")
	backend.Seed("worker2", "w2@example.com", "secret123", "WORKER")
	backend.Seed("admin1", "a1@example.com", "secret123", "ADMIN")

	creds := storage.NewMemoryStore()
	client := rest.NewClient(backend.URL, 0, creds.AccessToken, zerolog.Nop())

	return &fixture{
		backend:  backend,
		creds:    creds,
		session:  NewSessionStore(rest.NewAuthGateway(client), creds, zerolog.Nop()),
		projects: NewProjectStore(rest.NewProjectGateway(client), zerolog.Nop()),
	}
}

func (f *fixture) loginAs(t *testing.T, username string) domain.User {
	t.Helper()
	user, err := f.session.Login(context.Background(), username, "secret123")
	if err != nil {
		t.Fatalf("login as %s failed: %v", username, err)
	}
	return user
}

func TestFlow_WorkerLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user := f.loginAs(t, "worker1")
	if user.Role != domain.RoleWorker {
		t.Fatalf("unexpected role: %s", user.Role)
	}

	if err := f.projects.Fetch(ctx); err != nil {
		t.Fatalf("initial fetch failed: %v", err)
	}
	if got := len(f.projects.Snapshot().Projects); got != 0 {
		t.Fatalf("expected empty listing, got %d", got)
	}

	created, err := f.projects.Create(ctx, ports.ProjectInput{Name: "Alpha", Description: "first"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected a server-assigned id")
	}
	if created.CreatedBy.Username != "worker1" {
		t.Fatalf("expected ownership stamped by the backend, got %+v", created.CreatedBy)
	}

	updated, err := f.projects.Update(ctx, created.ID, ports.ProjectInput{Name: "Alpha v2", Description: "second"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update must not change the id: %d != %d", updated.ID, created.ID)
	}
	if updated.CreatedBy.Username != "worker1" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("ownership and creation time must survive an update: %+v", updated)
	}

	snap := f.projects.Snapshot()
	if len(snap.Projects) != 1 || snap.Projects[0].Name != "Alpha v2" {
		t.Fatalf("unexpected collection after update: %+v", snap.Projects)
	}

	if err := f.projects.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := len(f.projects.Snapshot().Projects); got != 0 {
		t.Fatalf("expected empty collection after delete, got %d", got)
	}

	f.session.Logout()
	f.projects.Clear()

	if f.session.Snapshot().User != nil {
		t.Fatalf("expected signed-out session")
	}
	if access, _ := f.creds.AccessToken(ctx); access != "" {
		t.Fatalf("expected cleared credentials, got %q", access)
	}
}

func TestFlow_RoleVisibilityAndMutationRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.loginAs(t, "worker1")
	if _, err := f.projects.Create(ctx, ports.ProjectInput{Name: "Alpha", Description: "w1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	f.session.Logout()
	f.projects.Clear()

	// The other worker sees only their own projects.
	f.loginAs(t, "worker2")
	if err := f.projects.Fetch(ctx); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got := len(f.projects.Snapshot().Projects); got != 0 {
		t.Fatalf("worker2 must not see worker1's projects, got %d", got)
	}
	f.session.Logout()
	f.projects.Clear()

	// The admin sees everything but may not mutate.
	f.loginAs(t, "admin1")
	if err := f.projects.Fetch(ctx); err != nil {
		t.Fatalf("admin fetch failed: %v", err)
	}
	snap := f.projects.Snapshot()
	if len(snap.Projects) != 1 || snap.Projects[0].CreatedBy.Username != "worker1" {
		t.Fatalf("admin must see all projects: %+v", snap.Projects)
	}

	if _, err := f.projects.Create(ctx, ports.ProjectInput{Name: "Rogue", Description: "nope"}); err == nil {
		t.Fatalf("expected the backend to reject an admin create")
	}
	if got := f.projects.Snapshot().Error; got != "Admins cannot create projects." {
		t.Fatalf("expected backend detail, got %q", got)
	}
}

func TestFlow_OwnershipEnforcedAcrossWorkers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.loginAs(t, "worker1")
	created, err := f.projects.Create(ctx, ports.ProjectInput{Name: "Alpha", Description: "w1"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	f.session.Logout()
	f.projects.Clear()

	f.loginAs(t, "worker2")
	if _, err := f.projects.Update(ctx, created.ID, ports.ProjectInput{Name: "Stolen", Description: "w2"}); err == nil {
		t.Fatalf("expected the backend to reject a foreign update")
	}
	if got := f.projects.Snapshot().Error; got != "You can only update your own projects." {
		t.Fatalf("expected ownership detail, got %q", got)
	}
}

func TestFlow_RejectedLoginAndRecovery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.session.Login(ctx, "worker1", "wrong"); err == nil {
		t.Fatalf("expected rejected login")
	}
	if got := f.session.Snapshot().Error; got != "No active account found with the given credentials" {
		t.Fatalf("unexpected error message: %q", got)
	}

	// A following successful login clears the error.
	f.loginAs(t, "worker1")
	snap := f.session.Snapshot()
	if snap.Error != "" || snap.User == nil {
		t.Fatalf("expected recovered session, got %+v", snap)
	}
}

func TestFlow_RegistrationThenLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.session.Register(ctx, ports.RegisterAccountInput{
		Username: "worker3",
		Email:    "w3@example.com",
		Password: "secret123",
		Role:     domain.RoleWorker,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Username != "worker3" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if access, _ := f.creds.AccessToken(ctx); access != "" {
		t.Fatalf("registration must not issue tokens, got %q", access)
	}

	// Registering the same username again surfaces the backend's message.
	if _, err := f.session.Register(ctx, ports.RegisterAccountInput{
		Username: "worker3",
		Email:    "other@example.com",
		Password: "secret123",
		Role:     domain.RoleWorker,
	}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if got := f.session.Snapshot().Error; got != "username: A user with that username already exists." {
		t.Fatalf("unexpected error message: %q", got)
	}

	f.session.ClearError()
	f.loginAs(t, "worker3")
}

func TestFlow_BackgroundRefreshReplacesAccessToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.backend.SetAccessTTL(30 * time.Second) // inside the refresher's leeway

	f.loginAs(t, "worker1")

	r := NewRefresher(f.session, f.creds, 0, 0, zerolog.Nop())
	r.tick(ctx)

	access, err := f.creds.AccessToken(ctx)
	if err != nil {
		t.Fatalf("reading access token: %v", err)
	}
	if access == "" {
		t.Fatalf("expected a refreshed access token")
	}
	// The refreshed token must still open protected routes.
	if err := f.projects.Fetch(ctx); err != nil {
		t.Fatalf("fetch with refreshed token failed: %v", err)
	}
}
