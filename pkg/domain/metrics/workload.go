package metrics

import (
	"cmp"
	"slices"
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

const staleAfter = 7 * day

// TeamWorkload groups items by assignee, busiest first
func TeamWorkload(items []*model.AssignedWorkItem) []model.Workload {
	groups := groupByAssignee(items)

	result := make([]model.Workload, 0, len(groups))
	for _, g := range groups {
		result = append(result, g.workload())
	}
	sortWorkloads(result, func(w model.Workload) model.Workload { return w })
	return result
}

// EnhancedTeamWorkload extends TeamWorkload with completion and staleness
// indicators. In-progress items updated within the last 7 days contribute
// their age to the average; older ones count as stale.
func EnhancedTeamWorkload(items []*model.AssignedWorkItem, now time.Time) []model.EnhancedWorkload {
	groups := groupByAssignee(items)
	staleBefore := now.Add(-staleAfter)

	result := make([]model.EnhancedWorkload, 0, len(groups))
	for _, g := range groups {
		e := model.EnhancedWorkload{Workload: g.workload()}
		if g.member != nil {
			e.GitHubUsername = g.member.Login
			e.DisplayName = g.member.DisplayName
		}

		var ageSum float64
		var active int
		for _, item := range g.items {
			if item.Status.IsCompleted() {
				e.CompletedPoints += item.Points()
			}
			if !item.Status.IsInProgress() {
				continue
			}
			if item.UpdatedAt.Before(staleBefore) {
				e.StaleItems++
				continue
			}
			started := item.CreatedAt
			if item.StartDate != nil {
				started = *item.StartDate
			}
			ageSum += now.Sub(started).Hours() / 24
			active++
		}
		if active > 0 {
			e.AvgInProgressDays = round1(ageSum / float64(active))
		}
		e.CompletionRate = percent(e.CompletedItems, e.TotalItems)
		e.WorkloadRisk = WorkloadRiskOf(e.StaleItems, e.AvgInProgressDays, e.InProgressItems)

		result = append(result, e)
	}
	sortWorkloads(result, func(e model.EnhancedWorkload) model.Workload { return e.Workload })
	return result
}

// WorkloadRiskOf tags an assignee from stale count, average in-progress age
// in days and in-progress count
func WorkloadRiskOf(stale int, avgDays float64, inProgress int) types.WorkloadRisk {
	switch {
	case stale > 2 || avgDays > 10 || inProgress > 5:
		return types.WorkloadRiskHigh
	case stale > 0 || avgDays > 5 || inProgress > 3:
		return types.WorkloadRiskMedium
	default:
		return types.WorkloadRiskLow
	}
}

type assigneeGroup struct {
	name   string
	member *model.TeamMember
	items  []*model.AssignedWorkItem
}

func (g *assigneeGroup) workload() model.Workload {
	w := model.Workload{Assignee: g.name, TotalItems: len(g.items)}
	for _, item := range g.items {
		switch {
		case item.Status.IsCompleted():
			w.CompletedItems++
		case item.Status.IsInProgress():
			w.InProgressItems++
		case item.Status.IsTodo():
			w.TodoItems++
		}
		w.TotalPoints += item.Points()
	}
	return w
}

func groupByAssignee(items []*model.AssignedWorkItem) map[string]*assigneeGroup {
	groups := make(map[string]*assigneeGroup)
	for _, item := range items {
		name := item.AssigneeName()
		g, ok := groups[name]
		if !ok {
			g = &assigneeGroup{name: name, member: item.Assignee}
			groups[name] = g
		}
		g.items = append(g.items, item)
	}
	return groups
}

func sortWorkloads[T any](s []T, get func(T) model.Workload) {
	slices.SortFunc(s, func(a, b T) int {
		wa, wb := get(a), get(b)
		if c := cmp.Compare(wb.TotalItems, wa.TotalItems); c != 0 {
			return c
		}
		return cmp.Compare(wa.Assignee, wb.Assignee)
	})
}
