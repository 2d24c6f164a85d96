package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fullstacktime/projectman/internal/api/metrics"
	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

const (
	loginPath           = "/login"
	workerDashboardPath = "/worker-dashboard"
	adminDashboardPath  = "/admin-dashboard"
)

// AuthHandler serves the login, registration and logout views.
type AuthHandler struct {
	session  ports.Session
	projects ports.Projects
	forms    *FormValidator
}

func NewAuthHandler(session ports.Session, projects ports.Projects, forms *FormValidator) *AuthHandler {
	return &AuthHandler{session: session, projects: projects, forms: forms}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=WORKER ADMIN"`
}

type sessionResponse struct {
	User     *domain.User `json:"user,omitempty"`
	Redirect string       `json:"redirect,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type fieldErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// Login validates the form, dispatches the login operation and answers with
// the role-based redirect target. Redirecting by role is this layer's job,
// not the store's.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if fields := h.forms.Validate(req); len(fields) > 0 {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, fieldErrorResponse{Errors: fields})
	}

	user, err := h.session.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(failureStatus(err), errorResponse{Error: h.session.Snapshot().Error})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, sessionResponse{User: &user, Redirect: dashboardFor(user.Role)})
}

// Register validates the form and creates the account. A fresh account is
// not authenticated, so the redirect always points at the login view.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if fields := h.forms.Validate(req); len(fields) > 0 {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, fieldErrorResponse{Errors: fields})
	}

	user, err := h.session.Register(c.Request().Context(), ports.RegisterAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(failureStatus(err), errorResponse{Error: h.session.Snapshot().Error})
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, sessionResponse{User: &user, Redirect: loginPath})
}

// Logout signs the user out and clears the cached projects in the same
// action, so nothing from the session stays visible.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.session.Logout()
	h.projects.Clear()
	return c.JSON(http.StatusOK, sessionResponse{Redirect: loginPath})
}

// Session exposes the current session state for form rendering: who is
// signed in, whether an operation is in flight, and any pending error.
func (h *AuthHandler) Session(c echo.Context) error {
	snap := h.session.Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"user":    snap.User,
		"loading": snap.Loading,
		"error":   snap.Error,
	})
}

// DismissError clears a stale error banner without touching other state.
func (h *AuthHandler) DismissError(c echo.Context) error {
	h.session.ClearError()
	return c.NoContent(http.StatusNoContent)
}

// Root sends the visitor to wherever they belong: their dashboard when
// signed in, the login view otherwise.
func (h *AuthHandler) Root(c echo.Context) error {
	snap := h.session.Snapshot()
	if snap.User == nil {
		return c.Redirect(http.StatusFound, loginPath)
	}
	return c.Redirect(http.StatusFound, dashboardFor(snap.User.Role))
}

func dashboardFor(role domain.Role) string {
	switch role {
	case domain.RoleWorker:
		return workerDashboardPath
	case domain.RoleAdmin:
		return adminDashboardPath
	default:
		return loginPath
	}
}

// failureStatus maps a store failure to an HTTP status: the backend's own
// status when it answered, 502 when it was unreachable.
func failureStatus(err error) int {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusBadGateway
}
