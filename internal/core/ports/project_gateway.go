package ports

import (
	"context"

	"github.com/fullstacktime/projectman/internal/core/domain"
)

// ProjectInput carries the editable fields of a project form.
type ProjectInput struct {
	Name        string
	Description string
}

// ProjectGateway is the remote project API. Every call attaches the stored
// access token as a bearer credential; the backend pre-filters by role, so
// workers only ever receive their own projects and admins receive all.
type ProjectGateway interface {
	List(ctx context.Context) ([]domain.Project, error)
	Create(ctx context.Context, input ProjectInput) (domain.Project, error)
	Update(ctx context.Context, id int, input ProjectInput) (domain.Project, error)
	Delete(ctx context.Context, id int) error
}
