package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

type workItemRepository struct {
	s *store
}

func copyWorkItem(w *model.WorkItem) *model.WorkItem {
	copied := *w
	copied.IssueNumber = copyPtr(w.IssueNumber)
	copied.SizeEstimate = copyPtr(w.SizeEstimate)
	copied.StartDate = copyPtr(w.StartDate)
	copied.EndDate = copyPtr(w.EndDate)
	copied.Milestone = copyPtr(w.Milestone)
	copied.AssigneeID = copyPtr(w.AssigneeID)
	if w.Snapshot != nil {
		copied.Snapshot = slices.Clone(w.Snapshot)
	}
	return &copied
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (r *workItemRepository) Upsert(ctx context.Context, w *model.WorkItem) (*model.WorkItem, error) {
	if w.ExternalID == "" {
		return nil, goerr.New("work item has no external id", goerr.V(model.ProjectIDKey, w.ProjectID))
	}

	m := r.s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[w.ProjectID]; !ok {
		return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, w.ProjectID))
	}
	if w.AssigneeID != nil {
		if _, ok := m.members[*w.AssigneeID]; !ok {
			return nil, goerr.Wrap(ErrNotFound, "assignee not found", goerr.V("assignee_id", *w.AssigneeID))
		}
	}

	now := time.Now().UTC()
	key := itemKey{projectID: w.ProjectID, externalID: w.ExternalID}
	stored := copyWorkItem(w)
	stored.UpdatedAt = now

	if id, ok := m.itemIndex[key]; ok {
		prev := m.workItems[id]
		stored.ID = id
		stored.CreatedAt = prev.CreatedAt
		m.workItems[id] = stored
		r.s.record(func() { m.workItems[id] = prev })
		return copyWorkItem(stored), nil
	}

	stored.ID = m.nextWorkItemID
	stored.CreatedAt = now
	m.nextWorkItemID++
	m.workItems[stored.ID] = stored
	m.itemIndex[key] = stored.ID
	r.s.record(func() {
		delete(m.workItems, stored.ID)
		delete(m.itemIndex, key)
	})

	return copyWorkItem(stored), nil
}

func (r *workItemRepository) GetByExternalID(ctx context.Context, projectID int64, externalID string) (*model.WorkItem, error) {
	m := r.s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.itemIndex[itemKey{projectID: projectID, externalID: externalID}]
	if !ok {
		return nil, nil
	}
	return copyWorkItem(m.workItems[id]), nil
}

func (r *workItemRepository) ListAssigned(ctx context.Context, projectID int64, filter *model.WorkItemFilter) ([]*model.AssignedWorkItem, error) {
	m := r.s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]*model.AssignedWorkItem, 0)
	for _, w := range m.workItems {
		if w.ProjectID != projectID {
			continue
		}
		item := &model.AssignedWorkItem{WorkItem: copyWorkItem(w)}
		if w.AssigneeID != nil {
			if member, ok := m.members[*w.AssigneeID]; ok {
				item.Assignee = copyTeamMember(member)
			}
		}
		if !filter.Match(item) {
			continue
		}
		items = append(items, item)
	}

	slices.SortFunc(items, func(a, b *model.AssignedWorkItem) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return items, nil
}
