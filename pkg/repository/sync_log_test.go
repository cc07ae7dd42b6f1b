package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

func runSyncLogRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create then Finish", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		started := time.Now().UTC().Truncate(time.Microsecond)
		log, err := repo.SyncLog().Create(ctx, &model.SyncLog{
			ProjectID: p.ID,
			SyncType:  model.SyncTypeFull,
			Status:    types.SyncStatusInProgress,
			StartedAt: started,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, log.ID).NotEqual(int64(0))
		gt.Value(t, log.CompletedAt).Nil()

		completed := started.Add(time.Second)
		log.Status = types.SyncStatusSuccess
		log.ItemsSynced = 9
		log.ItemsFailed = 1
		log.CompletedAt = &completed
		gt.NoError(t, repo.SyncLog().Finish(ctx, log)).Required()

		logs, err := repo.SyncLog().List(ctx, p.ID, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(1)
		gt.Value(t, logs[0].Status).Equal(types.SyncStatusSuccess)
		gt.Value(t, logs[0].ItemsSynced).Equal(9)
		gt.Value(t, logs[0].ItemsFailed).Equal(1)
		gt.Bool(t, logs[0].CompletedAt.Equal(completed)).True()
	})

	t.Run("List is newest first and limited", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		base := time.Now().UTC().Truncate(time.Second)
		for i := 0; i < 3; i++ {
			_, err := repo.SyncLog().Create(ctx, &model.SyncLog{
				ProjectID: p.ID,
				SyncType:  model.SyncTypeFull,
				Status:    types.SyncStatusError,
				StartedAt: base.Add(time.Duration(i) * time.Minute),
			})
			gt.NoError(t, err).Required()
		}

		logs, err := repo.SyncLog().List(ctx, p.ID, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(2)
		gt.Bool(t, logs[0].StartedAt.After(logs[1].StartedAt)).True()

		all, err := repo.SyncLog().List(ctx, p.ID, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(3)
	})

	t.Run("Finish of unknown log fails", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.SyncLog().Finish(context.Background(), &model.SyncLog{ID: time.Now().UnixNano(), Status: types.SyncStatusError})
		gt.Value(t, err).NotNil()
	})
}
