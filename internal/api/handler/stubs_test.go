package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

type stubSession struct {
	snapshot   ports.SessionSnapshot
	loginFn    func(ctx context.Context, username, password string) (domain.User, error)
	registerFn func(ctx context.Context, input ports.RegisterAccountInput) (domain.User, error)
	loggedOut  int
	dismissed  int
}

func (s *stubSession) Snapshot() ports.SessionSnapshot { return s.snapshot }

func (s *stubSession) Login(ctx context.Context, username, password string) (domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubSession) Register(ctx context.Context, input ports.RegisterAccountInput) (domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubSession) Logout() { s.loggedOut++ }

func (s *stubSession) ClearError() { s.dismissed++ }

func (s *stubSession) RefreshAccessToken(context.Context) (string, error) { return "", nil }

type stubProjects struct {
	snapshot ports.ProjectSnapshot
	fetchFn  func(ctx context.Context) error
	createFn func(ctx context.Context, input ports.ProjectInput) (domain.Project, error)
	updateFn func(ctx context.Context, id int, input ports.ProjectInput) (domain.Project, error)
	deleteFn func(ctx context.Context, id int) error
	fetches  int
	cleared  int
}

func (s *stubProjects) Snapshot() ports.ProjectSnapshot { return s.snapshot }

func (s *stubProjects) Fetch(ctx context.Context) error {
	s.fetches++
	if s.fetchFn != nil {
		return s.fetchFn(ctx)
	}
	return nil
}

func (s *stubProjects) Create(ctx context.Context, input ports.ProjectInput) (domain.Project, error) {
	return s.createFn(ctx, input)
}

func (s *stubProjects) Update(ctx context.Context, id int, input ports.ProjectInput) (domain.Project, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubProjects) Delete(ctx context.Context, id int) error {
	return s.deleteFn(ctx, id)
}

func (s *stubProjects) Clear() { s.cleared++ }

// newJSONContext builds an echo context around a JSON request body.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func workerUser() *domain.User {
	return &domain.User{Username: "worker1", Role: domain.RoleWorker}
}

var _ ports.Session = (*stubSession)(nil)
var _ ports.Projects = (*stubProjects)(nil)
