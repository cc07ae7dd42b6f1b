package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

type teamMemberRepository struct {
	s *store
}

func copyTeamMember(tm *model.TeamMember) *model.TeamMember {
	copied := *tm
	return &copied
}

func (r *teamMemberRepository) GetOrCreate(ctx context.Context, tm *model.TeamMember) (*model.TeamMember, error) {
	if tm.Login == "" {
		return nil, goerr.New("team member has no login", goerr.V(model.ProjectIDKey, tm.ProjectID))
	}

	m := r.s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memberKey{projectID: tm.ProjectID, login: tm.Login}
	if id, ok := m.memberIndex[key]; ok {
		return copyTeamMember(m.members[id]), nil
	}

	if _, ok := m.projects[tm.ProjectID]; !ok {
		return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, tm.ProjectID))
	}

	created := copyTeamMember(tm)
	created.ID = m.nextMemberID
	created.CreatedAt = time.Now().UTC()
	m.nextMemberID++
	m.members[created.ID] = created
	m.memberIndex[key] = created.ID
	r.s.record(func() {
		delete(m.members, created.ID)
		delete(m.memberIndex, key)
	})

	return copyTeamMember(created), nil
}

func (r *teamMemberRepository) List(ctx context.Context, projectID int64) ([]*model.TeamMember, error) {
	m := r.s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	members := make([]*model.TeamMember, 0)
	for _, tm := range m.members {
		if tm.ProjectID == projectID {
			members = append(members, copyTeamMember(tm))
		}
	}
	slices.SortFunc(members, func(a, b *model.TeamMember) int { return cmp.Compare(a.Login, b.Login) })
	return members, nil
}
