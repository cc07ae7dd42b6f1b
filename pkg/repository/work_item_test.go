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

func newWorkItem(projectID int64, externalID, status string) *model.WorkItem {
	return &model.WorkItem{
		ProjectID:  projectID,
		ExternalID: externalID,
		Title:      "Item " + externalID,
		Status:     types.Status(status),
		Priority:   "Medium",
		ItemType:   "ISSUE",
		Snapshot:   []byte(`{"id":"` + externalID + `"}`),
	}
}

func runWorkItemRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Upsert inserts then overwrites", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		item := newWorkItem(p.ID, "PVTI_1", "Todo")
		item.SizeEstimate = ptr(3)
		item.StartDate = &start
		item.IssueNumber = ptr(42)

		first, err := repo.WorkItem().Upsert(ctx, item)
		gt.NoError(t, err).Required()
		gt.Value(t, first.ID).NotEqual(int64(0))
		gt.Value(t, *first.SizeEstimate).Equal(3)
		gt.Bool(t, first.StartDate.Equal(start)).True()

		item.Status = "Done"
		item.Title = "Renamed"
		item.SizeEstimate = nil
		second, err := repo.WorkItem().Upsert(ctx, item)
		gt.NoError(t, err).Required()

		gt.Value(t, second.ID).Equal(first.ID)
		gt.Value(t, second.Status).Equal(types.Status("Done"))
		gt.Value(t, second.Title).Equal("Renamed")
		gt.Value(t, second.SizeEstimate).Nil()
		gt.Bool(t, second.CreatedAt.Equal(first.CreatedAt)).True()
		gt.Bool(t, second.UpdatedAt.Before(first.UpdatedAt)).False()

		got, err := repo.WorkItem().GetByExternalID(ctx, p.ID, "PVTI_1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Renamed")
		gt.Value(t, *got.IssueNumber).Equal(42)
	})

	t.Run("one row per external id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		for _, id := range []string{"A", "B", "A", "C", "B", "A"} {
			_, err := repo.WorkItem().Upsert(ctx, newWorkItem(p.ID, id, "Todo"))
			gt.NoError(t, err).Required()
		}

		items, err := repo.WorkItem().ListAssigned(ctx, p.ID, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(3)
	})

	t.Run("same external id in another project is a different item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p1 := newProject(t, repo)
		p2 := newProject(t, repo)

		a, err := repo.WorkItem().Upsert(ctx, newWorkItem(p1.ID, "X", "Todo"))
		gt.NoError(t, err).Required()
		b, err := repo.WorkItem().Upsert(ctx, newWorkItem(p2.ID, "X", "Todo"))
		gt.NoError(t, err).Required()
		gt.Value(t, a.ID).NotEqual(b.ID)
	})

	t.Run("GetByExternalID returns nil when missing", func(t *testing.T) {
		repo := newRepo(t)
		p := newProject(t, repo)
		got, err := repo.WorkItem().GetByExternalID(context.Background(), p.ID, "nope")
		gt.NoError(t, err).Required()
		gt.Value(t, got).Nil()
	})

	t.Run("ListAssigned joins assignee and applies filter", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		alice, err := repo.TeamMember().GetOrCreate(ctx, &model.TeamMember{
			ProjectID: p.ID, Login: "alice", DisplayName: "Alice",
		})
		gt.NoError(t, err).Required()

		done := newWorkItem(p.ID, "1", "Done")
		done.AssigneeID = &alice.ID
		done.Milestone = ptr("v1")
		_, err = repo.WorkItem().Upsert(ctx, done)
		gt.NoError(t, err).Required()

		todo := newWorkItem(p.ID, "2", "Todo")
		todo.Milestone = ptr("v1")
		_, err = repo.WorkItem().Upsert(ctx, todo)
		gt.NoError(t, err).Required()

		all, err := repo.WorkItem().ListAssigned(ctx, p.ID, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)
		for _, item := range all {
			if item.ExternalID == "1" {
				gt.Value(t, item.Assignee).NotNil()
				gt.Value(t, item.Assignee.Login).Equal("alice")
			} else {
				gt.Value(t, item.Assignee).Nil()
			}
		}

		today := time.Now().UTC().Format(model.DateLayout)
		tests := []struct {
			name string
			args [5]string
			want int
		}{
			{name: "by assignee login", args: [5]string{"", "", "alice"}, want: 1},
			{name: "by assignee display name", args: [5]string{"", "", "Alice"}, want: 1},
			{name: "by status", args: [5]string{"", "", "", "Todo"}, want: 1},
			{name: "by milestone", args: [5]string{"", "", "", "", "v1"}, want: 2},
			{name: "by date including today", args: [5]string{today, today}, want: 2},
			{name: "by date before", args: [5]string{"2000-01-01", "2000-01-31"}, want: 0},
			{name: "combined", args: [5]string{"", "", "alice", "Todo"}, want: 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f, err := model.ParseWorkItemFilter(tt.args[0], tt.args[1], tt.args[2], tt.args[3], tt.args[4])
				gt.NoError(t, err).Required()
				items, err := repo.WorkItem().ListAssigned(ctx, p.ID, f)
				gt.NoError(t, err).Required()
				gt.Array(t, items).Length(tt.want)
			})
		}
	})
}
