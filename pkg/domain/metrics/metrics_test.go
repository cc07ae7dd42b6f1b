package metrics_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/domain/metrics"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

// Thursday
var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type itemOpt func(*model.AssignedWorkItem)

func newItem(status string, opts ...itemOpt) *model.AssignedWorkItem {
	item := &model.AssignedWorkItem{WorkItem: &model.WorkItem{
		Status:    types.Status(status),
		CreatedAt: now.AddDate(0, -1, 0),
		UpdatedAt: now,
	}}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

func withSize(n int) itemOpt {
	return func(i *model.AssignedWorkItem) { i.SizeEstimate = &n }
}

func updatedDaysAgo(days float64) itemOpt {
	return func(i *model.AssignedWorkItem) {
		i.UpdatedAt = now.Add(-time.Duration(days * float64(24*time.Hour)))
	}
}

func assignedTo(login, name string) itemOpt {
	return func(i *model.AssignedWorkItem) {
		i.Assignee = &model.TeamMember{Login: login, DisplayName: name}
	}
}

func inMilestone(name string) itemOpt {
	return func(i *model.AssignedWorkItem) { i.Milestone = &name }
}

func startsDaysAgo(days int) itemOpt {
	return func(i *model.AssignedWorkItem) {
		d := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
		i.StartDate = &d
	}
}

func endsInDays(days int) itemOpt {
	return func(i *model.AssignedWorkItem) {
		d := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
		i.EndDate = &d
	}
}

func TestProgress(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p := metrics.Progress(nil)
		gt.Number(t, p.TotalItems).Equal(0)
		gt.Number(t, p.ProgressPercentage).Equal(0)
	})

	t.Run("buckets", func(t *testing.T) {
		p := metrics.Progress([]*model.AssignedWorkItem{
			newItem("Done"),
			newItem("Closed"),
			newItem("In Review"),
			newItem("Backlog"),
		})
		gt.Number(t, p.TotalItems).Equal(4)
		gt.Number(t, p.CompletedItems).Equal(2)
		gt.Number(t, p.InProgressItems).Equal(1)
		gt.Number(t, p.TodoItems).Equal(1)
		gt.Number(t, p.ProgressPercentage).Equal(50)
	})

	t.Run("membership is case sensitive", func(t *testing.T) {
		p := metrics.Progress([]*model.AssignedWorkItem{newItem("done"), newItem("Done")})
		gt.Number(t, p.CompletedItems).Equal(1)
		gt.Number(t, p.ProgressPercentage).Equal(50)
	})

	t.Run("rounds percentage", func(t *testing.T) {
		p := metrics.Progress([]*model.AssignedWorkItem{newItem("Done"), newItem("Todo"), newItem("Todo")})
		gt.Number(t, p.ProgressPercentage).Equal(33)
	})
}

func TestStatusDistribution(t *testing.T) {
	dist := metrics.StatusDistribution([]*model.AssignedWorkItem{
		newItem("Todo"),
		newItem("Done"),
		newItem("Done"),
		newItem(""),
		newItem("Blocked"),
	})

	gt.Array(t, dist).Length(4)
	gt.Value(t, dist[0]).Equal(model.StatusCount{Name: "Done", Value: 2})
	gt.Value(t, dist[1]).Equal(model.StatusCount{Name: "Blocked", Value: 1})
	gt.Value(t, dist[2]).Equal(model.StatusCount{Name: "Todo", Value: 1})
	gt.Value(t, dist[3]).Equal(model.StatusCount{Name: "Unknown", Value: 1})
}

func TestFiltered(t *testing.T) {
	t.Run("average over sized items only", func(t *testing.T) {
		f := metrics.Filtered([]*model.AssignedWorkItem{
			newItem("Done", withSize(3)),
			newItem("Todo", withSize(2)),
			newItem("Todo"),
		})
		gt.Number(t, f.TotalItems).Equal(3)
		gt.Number(t, f.CompletedItems).Equal(1)
		gt.Number(t, f.AvgSize).Equal(2.5)
	})

	t.Run("one decimal", func(t *testing.T) {
		f := metrics.Filtered([]*model.AssignedWorkItem{
			newItem("Done", withSize(1)),
			newItem("Done", withSize(1)),
			newItem("Done", withSize(2)),
		})
		gt.Number(t, f.AvgSize).Equal(1.3)
	})

	t.Run("no sizes", func(t *testing.T) {
		f := metrics.Filtered([]*model.AssignedWorkItem{newItem("Done")})
		gt.Number(t, f.AvgSize).Equal(0.0)
	})
}

func TestTeamVelocity(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		v := metrics.TeamVelocity(nil, now)
		gt.Array(t, v.WeeklyData).Length(0)
		gt.Number(t, v.AverageVelocity).Equal(0)
	})

	t.Run("weeks start on monday and are oldest first", func(t *testing.T) {
		v := metrics.TeamVelocity([]*model.AssignedWorkItem{
			// this week, Monday 2026-10-12
			newItem("Done", withSize(3), updatedDaysAgo(0)),
			newItem("Closed", updatedDaysAgo(3)),
			// last week
			newItem("Completed", withSize(5), updatedDaysAgo(7)),
			// not completed
			newItem("In Progress", withSize(8), updatedDaysAgo(1)),
			// outside 12 weeks
			newItem("Done", withSize(13), updatedDaysAgo(90)),
		}, now)

		gt.Array(t, v.WeeklyData).Length(2)
		gt.Value(t, v.WeeklyData[0]).Equal(model.WeeklyVelocity{Week: "2026-10-05", CompletedPoints: 5, CompletedItems: 1})
		gt.Value(t, v.WeeklyData[1]).Equal(model.WeeklyVelocity{Week: "2026-10-12", CompletedPoints: 4, CompletedItems: 2})
		gt.Number(t, v.AverageVelocity).Equal(5)
	})

	t.Run("keeps the six most recent weeks", func(t *testing.T) {
		var items []*model.AssignedWorkItem
		for w := 0; w < 8; w++ {
			items = append(items, newItem("Done", withSize(w+1), updatedDaysAgo(float64(w*7))))
		}
		v := metrics.TeamVelocity(items, now)

		gt.Array(t, v.WeeklyData).Length(6)
		gt.String(t, v.WeeklyData[0].Week).Equal("2026-09-07")
		gt.String(t, v.WeeklyData[5].Week).Equal("2026-10-12")
		// (6+5+4+3+2+1)/6 = 3.5
		gt.Number(t, v.AverageVelocity).Equal(4)
	})
}

func TestBurndown(t *testing.T) {
	t.Run("starts at total", func(t *testing.T) {
		b := metrics.Burndown([]*model.AssignedWorkItem{
			newItem("Todo", withSize(5)),
			newItem("Todo"),
		}, now)

		gt.Number(t, b.TotalPoints).Equal(6)
		gt.Number(t, b.TotalItems).Equal(2)
		gt.Array(t, b.BurndownData).Length(1)
		gt.Value(t, b.BurndownData[0]).Equal(model.BurndownPoint{Date: "2026-09-17", RemainingPoints: 6, IdealRemaining: 6})
	})

	t.Run("one point per completion day", func(t *testing.T) {
		b := metrics.Burndown([]*model.AssignedWorkItem{
			newItem("Done", withSize(7), updatedDaysAgo(14)),
			newItem("Done", withSize(7), updatedDaysAgo(14)),
			newItem("Done", withSize(7), updatedDaysAgo(0)),
			newItem("Todo", withSize(7)),
			// completed before the window
			newItem("Done", withSize(100), updatedDaysAgo(40)),
		}, now)

		gt.Number(t, b.TotalPoints).Equal(128)
		gt.Array(t, b.BurndownData).Length(3)
		gt.Value(t, b.BurndownData[1]).Equal(model.BurndownPoint{Date: "2026-10-01", RemainingPoints: 114, IdealRemaining: 64})
		gt.Value(t, b.BurndownData[2]).Equal(model.BurndownPoint{Date: "2026-10-15", RemainingPoints: 107, IdealRemaining: 0})
	})

	t.Run("remaining never goes negative", func(t *testing.T) {
		items := []*model.AssignedWorkItem{newItem("Done", withSize(-10), updatedDaysAgo(2))}
		for i := 0; i < 3; i++ {
			items = append(items, newItem("Done", withSize(5), updatedDaysAgo(1)))
		}
		b := metrics.Burndown(items, now)

		for _, p := range b.BurndownData {
			gt.Number(t, p.RemainingPoints).GreaterOrEqual(0)
			gt.Number(t, p.IdealRemaining).GreaterOrEqual(0)
		}
		gt.Number(t, b.BurndownData[0].RemainingPoints).Equal(b.TotalPoints)
	})
}

func TestTeamWorkload(t *testing.T) {
	result := metrics.TeamWorkload([]*model.AssignedWorkItem{
		newItem("Done", withSize(3), assignedTo("alice", "Alice")),
		newItem("In Progress", assignedTo("alice", "Alice")),
		newItem("Todo", withSize(2), assignedTo("bob", "")),
		newItem("Backlog"),
	})

	gt.Array(t, result).Length(3)
	gt.Value(t, result[0]).Equal(model.Workload{
		Assignee: "Alice", TotalItems: 2, CompletedItems: 1, InProgressItems: 1, TotalPoints: 4,
	})
	gt.Value(t, result[1]).Equal(model.Workload{Assignee: "Unassigned", TotalItems: 1, TodoItems: 1, TotalPoints: 1})
	gt.Value(t, result[2]).Equal(model.Workload{Assignee: "bob", TotalItems: 1, TodoItems: 1, TotalPoints: 2})
}

func TestEnhancedTeamWorkload(t *testing.T) {
	result := metrics.EnhancedTeamWorkload([]*model.AssignedWorkItem{
		newItem("Done", withSize(5), assignedTo("alice", "Alice")),
		newItem("In Progress", startsDaysAgo(4), updatedDaysAgo(1), assignedTo("alice", "Alice")),
		newItem("In Progress", startsDaysAgo(2), updatedDaysAgo(1), assignedTo("alice", "Alice")),
		newItem("In Review", updatedDaysAgo(10), assignedTo("alice", "Alice")),
	}, now)

	gt.Array(t, result).Length(1)
	e := result[0]
	gt.String(t, e.GitHubUsername).Equal("alice")
	gt.String(t, e.DisplayName).Equal("Alice")
	gt.Number(t, e.CompletedPoints).Equal(5)
	gt.Number(t, e.CompletionRate).Equal(25)
	// ages are 4.5 and 2.5 days measured from midnight start dates
	gt.Number(t, e.AvgInProgressDays).Equal(3.5)
	gt.Number(t, e.StaleItems).Equal(1)
	gt.Value(t, e.WorkloadRisk).Equal(types.WorkloadRiskMedium)

	t.Run("falls back to created at", func(t *testing.T) {
		item := newItem("In Progress", assignedTo("bob", "Bob"))
		item.CreatedAt = now.Add(-12 * 24 * time.Hour)
		result := metrics.EnhancedTeamWorkload([]*model.AssignedWorkItem{item}, now)
		gt.Number(t, result[0].AvgInProgressDays).Equal(12.0)
		gt.Value(t, result[0].WorkloadRisk).Equal(types.WorkloadRiskHigh)
	})
}

func TestWorkloadRiskOf(t *testing.T) {
	tests := []struct {
		name       string
		stale      int
		avg        float64
		inProgress int
		want       types.WorkloadRisk
	}{
		{name: "idle", want: types.WorkloadRiskLow},
		{name: "many stale", stale: 3, want: types.WorkloadRiskHigh},
		{name: "old average", avg: 10.1, want: types.WorkloadRiskHigh},
		{name: "too many in progress", inProgress: 6, want: types.WorkloadRiskHigh},
		{name: "one stale", stale: 1, want: types.WorkloadRiskMedium},
		{name: "average above five", avg: 5.5, want: types.WorkloadRiskMedium},
		{name: "four in progress", inProgress: 4, want: types.WorkloadRiskMedium},
		{name: "boundaries stay low", avg: 5, inProgress: 3, want: types.WorkloadRiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, metrics.WorkloadRiskOf(tt.stale, tt.avg, tt.inProgress)).Equal(tt.want)
		})
	}
}
