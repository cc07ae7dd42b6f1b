package metrics

import (
	"cmp"
	"slices"
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

const (
	atRiskHorizon    = 7
	atRiskCompletion = 80
)

// MilestoneTimeline summarizes every milestone that has at least one item,
// ordered by latest end date with undated milestones last
func MilestoneTimeline(items []*model.AssignedWorkItem, now time.Time) []model.Milestone {
	type acc struct {
		m                 model.Milestone
		start, end        *time.Time
		completionDaysSum float64
		completionDaysN   int
	}
	groups := make(map[string]*acc)

	for _, item := range items {
		if item.Milestone == nil || *item.Milestone == "" {
			continue
		}
		a, ok := groups[*item.Milestone]
		if !ok {
			a = &acc{m: model.Milestone{Name: *item.Milestone}}
			groups[*item.Milestone] = a
		}

		a.m.TotalItems++
		if item.Status.IsCompleted() {
			a.m.CompletedItems++
			if item.StartDate != nil {
				a.completionDaysSum += item.UpdatedAt.Sub(*item.StartDate).Hours() / 24
				a.completionDaysN++
			}
		}
		if item.StartDate != nil && (a.start == nil || item.StartDate.Before(*a.start)) {
			a.start = item.StartDate
		}
		if item.EndDate != nil && (a.end == nil || item.EndDate.After(*a.end)) {
			a.end = item.EndDate
		}
	}

	t := today(now)
	result := make([]model.Milestone, 0, len(groups))
	ends := make(map[string]*time.Time, len(groups))
	for name, a := range groups {
		m := a.m
		m.CompletionPercentage = percent(m.CompletedItems, m.TotalItems)
		if a.start != nil {
			s := a.start.Format(model.DateLayout)
			m.EarliestStart = &s
		}
		if a.end != nil {
			e := a.end.Format(model.DateLayout)
			m.LatestEnd = &e
		}
		if a.completionDaysN > 0 {
			avg := round1(a.completionDaysSum / float64(a.completionDaysN))
			m.AvgCompletionDays = &avg
		}
		m.Status = MilestoneStatusOf(m.CompletedItems, m.TotalItems, a.end, t)

		ends[name] = a.end
		result = append(result, m)
	}

	slices.SortFunc(result, func(a, b model.Milestone) int {
		ea, eb := ends[a.Name], ends[b.Name]
		switch {
		case ea != nil && eb == nil:
			return -1
		case ea == nil && eb != nil:
			return 1
		case ea != nil && eb != nil:
			if c := ea.Compare(*eb); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return result
}

// MilestoneStatusOf classifies a milestone. Full completion wins over any
// date; otherwise a past end date is overdue and an end date within a week
// with less than 80% done is at risk.
func MilestoneStatusOf(completed, total int, latestEnd *time.Time, today time.Time) types.MilestoneStatus {
	if total > 0 && completed == total {
		return types.MilestoneStatusCompleted
	}
	if latestEnd == nil {
		return types.MilestoneStatusOnTrack
	}
	end := truncateDay(*latestEnd)
	if end.Before(today) {
		return types.MilestoneStatusOverdue
	}
	if !end.After(today.AddDate(0, 0, atRiskHorizon)) && completed*100 < atRiskCompletion*total {
		return types.MilestoneStatusAtRisk
	}
	return types.MilestoneStatusOnTrack
}
