package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

func runProjectRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		p := newProject(t, repo)

		gt.Value(t, p.ID).NotEqual(int64(0))
		gt.Bool(t, p.CreatedAt.IsZero()).False()
		gt.Value(t, p.LastSyncedAt).Nil()
	})

	t.Run("Create rejects duplicate board binding", func(t *testing.T) {
		repo := newRepo(t)
		p := newProject(t, repo)

		_, err := repo.Project().Create(context.Background(), &model.Project{
			UserID: p.UserID, Name: "Other", Owner: p.Owner, Repo: p.Repo, BoardNumber: p.BoardNumber,
		})
		gt.Value(t, err).NotNil()
	})

	t.Run("Get and FindByBoard", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		got, err := repo.Project().Get(ctx, p.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Web")
		gt.Value(t, got.UserID).Equal(p.UserID)

		found, err := repo.Project().FindByBoard(ctx, p.UserID, "acme", "web", 1)
		gt.NoError(t, err).Required()
		gt.Value(t, found.ID).Equal(p.ID)

		missing, err := repo.Project().FindByBoard(ctx, p.UserID, "acme", "web", 2)
		gt.NoError(t, err).Required()
		gt.Value(t, missing).Nil()
	})

	t.Run("Get returns nil for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.Project().Get(context.Background(), time.Now().UnixNano())
		gt.NoError(t, err).Required()
		gt.Value(t, got).Nil()
	})

	t.Run("ListByUser only returns own projects", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p1 := newProject(t, repo)
		_, err := repo.Project().Create(ctx, &model.Project{
			UserID: p1.UserID, Name: "API", Owner: "acme", Repo: "api", BoardNumber: 2,
		})
		gt.NoError(t, err).Required()
		newProject(t, repo)

		projects, err := repo.Project().ListByUser(ctx, p1.UserID)
		gt.NoError(t, err).Required()
		gt.Array(t, projects).Length(2)

		all, err := repo.Project().ListAll(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(all)).GreaterOrEqual(3)
	})

	t.Run("UpdateLastSyncedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
		gt.NoError(t, repo.Project().UpdateLastSyncedAt(ctx, p.ID, at)).Required()

		got, err := repo.Project().Get(ctx, p.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.LastSyncedAt).NotNil()
		gt.Bool(t, got.LastSyncedAt.Equal(at)).True()

		gt.Value(t, repo.Project().UpdateLastSyncedAt(ctx, time.Now().UnixNano(), at)).NotNil()
	})
}
