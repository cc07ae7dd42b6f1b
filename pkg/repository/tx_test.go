package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

var errAbort = errors.New("abort")

func runTransactionTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("rollback discards writes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		err := repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Store) error {
			if _, err := tx.WorkItem().Upsert(ctx, newWorkItem(p.ID, "1", "Todo")); err != nil {
				return err
			}
			if _, err := tx.TeamMember().GetOrCreate(ctx, &model.TeamMember{ProjectID: p.ID, Login: "dave", DisplayName: "dave"}); err != nil {
				return err
			}
			return errAbort
		})
		gt.Error(t, err).Is(errAbort)

		items, err := repo.WorkItem().ListAssigned(ctx, p.ID, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(0)

		members, err := repo.TeamMember().List(ctx, p.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, members).Length(0)
	})

	t.Run("commit keeps writes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		gt.NoError(t, repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Store) error {
			_, err := tx.WorkItem().Upsert(ctx, newWorkItem(p.ID, "1", "Todo"))
			return err
		})).Required()

		items, err := repo.WorkItem().ListAssigned(ctx, p.ID, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(1)
	})

	t.Run("failed nested transaction keeps the outer one usable", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		gt.NoError(t, repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Store) error {
			for _, id := range []string{"1", "2", "3"} {
				err := tx.RunInTx(ctx, func(ctx context.Context, sp interfaces.Store) error {
					if _, err := sp.WorkItem().Upsert(ctx, newWorkItem(p.ID, id, "Todo")); err != nil {
						return err
					}
					if id == "2" {
						return errAbort
					}
					return nil
				})
				if err != nil && !errors.Is(err, errAbort) {
					return err
				}
			}
			return nil
		})).Required()

		items, err := repo.WorkItem().ListAssigned(ctx, p.ID, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(2)

		missing, err := repo.WorkItem().GetByExternalID(ctx, p.ID, "2")
		gt.NoError(t, err).Required()
		gt.Value(t, missing).Nil()
	})

	t.Run("outer rollback discards committed nested writes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		err := repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Store) error {
			if err := tx.RunInTx(ctx, func(ctx context.Context, sp interfaces.Store) error {
				_, err := sp.WorkItem().Upsert(ctx, newWorkItem(p.ID, "1", "Todo"))
				return err
			}); err != nil {
				return err
			}
			return errAbort
		})
		gt.Error(t, err).Is(errAbort)

		items, err := repo.WorkItem().ListAssigned(ctx, p.ID, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(0)
	})

	t.Run("writes outside the transaction survive its rollback", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		log, err := repo.SyncLog().Create(ctx, &model.SyncLog{ProjectID: p.ID, SyncType: model.SyncTypeFull, Status: "in_progress"})
		gt.NoError(t, err).Required()

		_ = repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Store) error {
			return errAbort
		})

		log.Status = "error"
		log.ErrorMessage = "board not found"
		gt.NoError(t, repo.SyncLog().Finish(ctx, log)).Required()

		logs, err := repo.SyncLog().List(ctx, p.ID, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(1)
		gt.Value(t, logs[0].ErrorMessage).Equal("board not found")
	})
}

func runLockTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("second lock on the same project fails until released", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		release, ok, err := repo.TryLockProject(ctx, p.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()

		_, ok, err = repo.TryLockProject(ctx, p.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).False()

		other := newProject(t, repo)
		releaseOther, ok, err := repo.TryLockProject(ctx, other.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
		releaseOther()

		release()

		release, ok, err = repo.TryLockProject(ctx, p.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
		release()
	})

	t.Run("ids beyond 32 bits are locked separately", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		const high = int64(1)<<40 + 7

		release, ok, err := repo.TryLockProject(ctx, high)
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()

		_, ok, err = repo.TryLockProject(ctx, high)
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).False()

		releaseLow, ok, err := repo.TryLockProject(ctx, 7)
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
		releaseLow()

		release()
	})
}
