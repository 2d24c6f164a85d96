package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fullstacktime/projectman/internal/api/metrics"
	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

// ProjectHandler serves the dashboards and the project CRUD actions. Create,
// update and delete are worker routes; the backend enforces ownership on top.
type ProjectHandler struct {
	session  ports.Session
	projects ports.Projects
	forms    *FormValidator
}

func NewProjectHandler(session ports.Session, projects ports.Projects, forms *FormValidator) *ProjectHandler {
	return &ProjectHandler{session: session, projects: projects, forms: forms}
}

type projectRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
}

type dashboardResponse struct {
	User     *domain.User     `json:"user"`
	Projects []domain.Project `json:"projects"`
	Error    string           `json:"error,omitempty"`
}

type deletedResponse struct {
	ID int `json:"id"`
}

// WorkerDashboard renders the worker view. The collection is fetched lazily,
// only when nothing is cached yet; a fetch failure lands in the snapshot's
// error while the previous list keeps rendering.
func (h *ProjectHandler) WorkerDashboard(c echo.Context) error {
	snap := h.projects.Snapshot()
	if len(snap.Projects) == 0 {
		h.fetch(c)
		snap = h.projects.Snapshot()
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		User:     h.session.Snapshot().User,
		Projects: snap.Projects,
		Error:    snap.Error,
	})
}

// AdminDashboard renders the read-only admin view over all projects. It
// refetches on every visit so the admin always sees the latest listing.
func (h *ProjectHandler) AdminDashboard(c echo.Context) error {
	h.fetch(c)
	snap := h.projects.Snapshot()
	return c.JSON(http.StatusOK, dashboardResponse{
		User:     h.session.Snapshot().User,
		Projects: snap.Projects,
		Error:    snap.Error,
	})
}

func (h *ProjectHandler) Create(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if fields := h.forms.Validate(req); len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, fieldErrorResponse{Errors: fields})
	}

	created, err := h.projects.Create(c.Request().Context(), ports.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		metrics.ProjectOpsTotal.WithLabelValues("create", "failure").Inc()
		return c.JSON(failureStatus(err), errorResponse{Error: h.projects.Snapshot().Error})
	}

	metrics.ProjectOpsTotal.WithLabelValues("create", "success").Inc()
	return c.JSON(http.StatusCreated, created)
}

func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid project id"})
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if fields := h.forms.Validate(req); len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, fieldErrorResponse{Errors: fields})
	}

	updated, err := h.projects.Update(c.Request().Context(), id, ports.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		metrics.ProjectOpsTotal.WithLabelValues("update", "failure").Inc()
		return c.JSON(failureStatus(err), errorResponse{Error: h.projects.Snapshot().Error})
	}

	metrics.ProjectOpsTotal.WithLabelValues("update", "success").Inc()
	return c.JSON(http.StatusOK, updated)
}

func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid project id"})
	}

	if err := h.projects.Delete(c.Request().Context(), id); err != nil {
		metrics.ProjectOpsTotal.WithLabelValues("delete", "failure").Inc()
		return c.JSON(failureStatus(err), errorResponse{Error: h.projects.Snapshot().Error})
	}

	metrics.ProjectOpsTotal.WithLabelValues("delete", "success").Inc()
	return c.JSON(http.StatusOK, deletedResponse{ID: id})
}

func (h *ProjectHandler) fetch(c echo.Context) {
	if err := h.projects.Fetch(c.Request().Context()); err != nil {
		metrics.ProjectOpsTotal.WithLabelValues("fetch", "failure").Inc()
		return
	}
	metrics.ProjectOpsTotal.WithLabelValues("fetch", "success").Inc()
}
