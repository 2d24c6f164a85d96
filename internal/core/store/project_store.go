package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

const (
	msgFetchFailed  = "Failed to fetch projects"
	msgCreateFailed = "Failed to create project"
	msgUpdateFailed = "Failed to update project"
	msgDeleteFailed = "Failed to delete project"
)

// ProjectStore caches the projects visible to the signed-in user. One
// Loading/Error pair is shared by all four operations: when calls overlap,
// the later-resolving one owns the status fields (last resolve wins).
// Callers that need per-operation status have to track it themselves.
type ProjectStore struct {
	mu    sync.Mutex
	state ports.ProjectSnapshot

	gw  ports.ProjectGateway
	log zerolog.Logger
}

func NewProjectStore(gw ports.ProjectGateway, log zerolog.Logger) *ProjectStore {
	return &ProjectStore{gw: gw, log: log}
}

// Snapshot returns a copy of the current collection state.
func (s *ProjectStore) Snapshot() ports.ProjectSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	snap.Projects = make([]domain.Project, len(s.state.Projects))
	copy(snap.Projects, s.state.Projects)
	return snap
}

// Fetch replaces the whole collection with the backend's listing, verbatim
// and in the backend's order. On failure the previous collection is left in
// place so the view can keep showing it alongside the error.
func (s *ProjectStore) Fetch(ctx context.Context) error {
	s.begin()

	projects, err := s.gw.List(ctx)
	if err != nil {
		s.fail(errorMessage(err, msgFetchFailed))
		s.log.Warn().Err(err).Msg("fetching projects failed")
		return err
	}

	s.mu.Lock()
	s.state.Projects = projects
	s.state.Loading = false
	s.mu.Unlock()

	s.log.Debug().Int("count", len(projects)).Msg("projects fetched")
	return nil
}

// Create round-trips to the backend and appends the returned project, which
// carries the server-assigned id and created_by.
func (s *ProjectStore) Create(ctx context.Context, input ports.ProjectInput) (domain.Project, error) {
	s.begin()

	created, err := s.gw.Create(ctx, input)
	if err != nil {
		s.fail(errorMessage(err, msgCreateFailed))
		s.log.Warn().Err(err).Str("name", input.Name).Msg("creating project failed")
		return domain.Project{}, err
	}

	s.mu.Lock()
	s.state.Projects = append(s.state.Projects, created)
	s.state.Loading = false
	s.mu.Unlock()

	s.log.Info().Int("id", created.ID).Str("name", created.Name).Msg("project created")
	return created, nil
}

// Update replaces the matching entry in place, preserving its position.
// When no entry matches the response's id the result is silently dropped;
// that only happens when an update races a concurrent delete.
func (s *ProjectStore) Update(ctx context.Context, id int, input ports.ProjectInput) (domain.Project, error) {
	s.begin()

	updated, err := s.gw.Update(ctx, id, input)
	if err != nil {
		s.fail(errorMessage(err, msgUpdateFailed))
		s.log.Warn().Err(err).Int("id", id).Msg("updating project failed")
		return domain.Project{}, err
	}

	s.mu.Lock()
	for i := range s.state.Projects {
		if s.state.Projects[i].ID == updated.ID {
			s.state.Projects[i] = updated
			break
		}
	}
	s.state.Loading = false
	s.mu.Unlock()

	s.log.Info().Int("id", updated.ID).Msg("project updated")
	return updated, nil
}

// Delete removes every entry carrying the id once the backend confirms. The
// id is echoed by this side; the backend's delete response has no body.
func (s *ProjectStore) Delete(ctx context.Context, id int) error {
	s.begin()

	if err := s.gw.Delete(ctx, id); err != nil {
		s.fail(errorMessage(err, msgDeleteFailed))
		s.log.Warn().Err(err).Int("id", id).Msg("deleting project failed")
		return err
	}

	s.mu.Lock()
	kept := s.state.Projects[:0]
	for _, p := range s.state.Projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.state.Projects = kept
	s.state.Loading = false
	s.mu.Unlock()

	s.log.Info().Int("id", id).Msg("project deleted")
	return nil
}

// Clear empties the collection and the error. Called together with logout so
// no projects from a prior session stay visible.
func (s *ProjectStore) Clear() {
	s.mu.Lock()
	s.state.Projects = nil
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *ProjectStore) begin() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *ProjectStore) fail(msg string) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = msg
	s.mu.Unlock()
}
