package ports

import (
	"context"

	"github.com/fullstacktime/projectman/internal/core/domain"
)

// ProjectSnapshot is a copy of the project collection state at one instant.
// Projects keeps the backend's display order; IDs are unique within it.
type ProjectSnapshot struct {
	Projects []domain.Project
	Loading  bool
	Error    string
}

// Projects is the project CRUD state container consumed by the dashboards.
// All operations share a single Loading/Error pair.
type Projects interface {
	Snapshot() ProjectSnapshot
	// Fetch replaces the whole collection with the backend's listing. On
	// failure the previous collection is left untouched.
	Fetch(ctx context.Context) error
	Create(ctx context.Context, input ProjectInput) (domain.Project, error)
	Update(ctx context.Context, id int, input ProjectInput) (domain.Project, error)
	Delete(ctx context.Context, id int) error
	// Clear empties the collection and the error, so nothing from a prior
	// session stays visible after logout.
	Clear()
}
