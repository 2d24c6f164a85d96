package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

// ProjectGateway implements ports.ProjectGateway. Every call attaches the
// stored access token; an expired token is reported like any other backend
// failure, there is no refresh-and-retry here.
type ProjectGateway struct {
	c *Client
}

func NewProjectGateway(c *Client) *ProjectGateway {
	return &ProjectGateway{c: c}
}

func (g *ProjectGateway) List(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := g.c.doJSON(ctx, http.MethodGet, "/api/projects/", nil, &projects, true); err != nil {
		return nil, err
	}
	return projects, nil
}

func (g *ProjectGateway) Create(ctx context.Context, input ports.ProjectInput) (domain.Project, error) {
	var created domain.Project
	if err := g.c.doJSON(ctx, http.MethodPost, "/api/projects/", projectPayload(input), &created, true); err != nil {
		return domain.Project{}, err
	}
	return created, nil
}

func (g *ProjectGateway) Update(ctx context.Context, id int, input ports.ProjectInput) (domain.Project, error) {
	var updated domain.Project
	path := fmt.Sprintf("/api/projects/%d/", id)
	if err := g.c.doJSON(ctx, http.MethodPut, path, projectPayload(input), &updated, true); err != nil {
		return domain.Project{}, err
	}
	return updated, nil
}

func (g *ProjectGateway) Delete(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/projects/%d/", id)
	return g.c.doJSON(ctx, http.MethodDelete, path, nil, nil, true)
}

func projectPayload(input ports.ProjectInput) any {
	return map[string]string{"name": input.Name, "description": input.Description}
}
