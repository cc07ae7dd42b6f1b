package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

type syncLogRepository struct {
	s *store
}

func copySyncLog(l *model.SyncLog) *model.SyncLog {
	copied := *l
	copied.CompletedAt = copyPtr(l.CompletedAt)
	return &copied
}

func (r *syncLogRepository) Create(ctx context.Context, log *model.SyncLog) (*model.SyncLog, error) {
	m := r.s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[log.ProjectID]; !ok {
		return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, log.ProjectID))
	}

	created := copySyncLog(log)
	created.ID = m.nextSyncLogID
	m.nextSyncLogID++
	m.syncLogs[created.ID] = created
	r.s.record(func() { delete(m.syncLogs, created.ID) })

	return copySyncLog(created), nil
}

func (r *syncLogRepository) Finish(ctx context.Context, log *model.SyncLog) error {
	m := r.s.m
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.syncLogs[log.ID]
	if !ok {
		return goerr.Wrap(ErrNotFound, "sync log not found", goerr.V("sync_log_id", log.ID))
	}

	updated := copySyncLog(prev)
	updated.Status = log.Status
	updated.ItemsSynced = log.ItemsSynced
	updated.ItemsFailed = log.ItemsFailed
	updated.ErrorMessage = log.ErrorMessage
	updated.CompletedAt = copyPtr(log.CompletedAt)
	m.syncLogs[log.ID] = updated
	r.s.record(func() { m.syncLogs[log.ID] = prev })

	return nil
}

func (r *syncLogRepository) List(ctx context.Context, projectID int64, limit int) ([]*model.SyncLog, error) {
	m := r.s.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	logs := make([]*model.SyncLog, 0)
	for _, l := range m.syncLogs {
		if l.ProjectID == projectID {
			logs = append(logs, copySyncLog(l))
		}
	}
	slices.SortFunc(logs, func(a, b *model.SyncLog) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
