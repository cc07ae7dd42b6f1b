package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

type projectRepository struct {
	s *store
}

func copyProject(p *model.Project) *model.Project {
	copied := *p
	if p.LastSyncedAt != nil {
		t := *p.LastSyncedAt
		copied.LastSyncedAt = &t
	}
	return &copied
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	m := r.s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.projects {
		if existing.UserID == p.UserID && existing.Owner == p.Owner &&
			existing.Repo == p.Repo && existing.BoardNumber == p.BoardNumber {
			return nil, goerr.New("project already exists",
				goerr.V("user_id", p.UserID), goerr.V("repository", p.FullName()), goerr.V("board_number", p.BoardNumber))
		}
	}

	now := time.Now().UTC()
	created := copyProject(p)
	created.ID = m.nextProjectID
	created.CreatedAt = now
	created.UpdatedAt = now
	m.nextProjectID++

	m.projects[created.ID] = created
	r.s.record(func() { delete(m.projects, created.ID) })

	return copyProject(created), nil
}

func (r *projectRepository) Get(ctx context.Context, id int64) (*model.Project, error) {
	m := r.s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return copyProject(p), nil
}

func (r *projectRepository) FindByBoard(ctx context.Context, userID, owner, repo string, boardNumber int) (*model.Project, error) {
	m := r.s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.projects {
		if p.UserID == userID && p.Owner == owner && p.Repo == repo && p.BoardNumber == boardNumber {
			return copyProject(p), nil
		}
	}
	return nil, nil
}

func (r *projectRepository) ListByUser(ctx context.Context, userID string) ([]*model.Project, error) {
	m := r.s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]*model.Project, 0)
	for _, p := range m.projects {
		if p.UserID == userID {
			projects = append(projects, copyProject(p))
		}
	}
	slices.SortFunc(projects, func(a, b *model.Project) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return projects, nil
}

func (r *projectRepository) ListAll(ctx context.Context) ([]*model.Project, error) {
	m := r.s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]*model.Project, 0, len(m.projects))
	for _, p := range m.projects {
		projects = append(projects, copyProject(p))
	}
	slices.SortFunc(projects, func(a, b *model.Project) int { return cmp.Compare(a.ID, b.ID) })
	return projects, nil
}

func (r *projectRepository) UpdateLastSyncedAt(ctx context.Context, id int64, at time.Time) error {
	m := r.s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
	}

	prev := copyProject(p)
	updated := copyProject(p)
	at = at.UTC()
	updated.LastSyncedAt = &at
	updated.UpdatedAt = time.Now().UTC()
	m.projects[id] = updated
	r.s.record(func() { m.projects[id] = prev })

	return nil
}
