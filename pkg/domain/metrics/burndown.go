package metrics

import (
	"math"
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

const burndownDays = 28

// Burndown reports remaining points over the trailing 28 days against an
// ideal linear line. The series starts at today-28 with the full total and
// has one point per day with completions.
func Burndown(items []*model.AssignedWorkItem, now time.Time) *model.Burndown {
	b := &model.Burndown{TotalItems: len(items)}
	for _, item := range items {
		b.TotalPoints += item.Points()
	}

	start := today(now).AddDate(0, 0, -burndownDays)
	since := now.Add(-burndownDays * day)

	completed := make(map[time.Time]int)
	for _, item := range items {
		if !item.Status.IsCompleted() || item.UpdatedAt.Before(since) {
			continue
		}
		completed[truncateDay(item.UpdatedAt)] += item.Points()
	}

	b.BurndownData = append(b.BurndownData, model.BurndownPoint{
		Date:            start.Format(model.DateLayout),
		RemainingPoints: b.TotalPoints,
		IdealRemaining:  b.TotalPoints,
	})

	days := descendingKeys(completed)
	remaining := b.TotalPoints
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		remaining = max(0, remaining-completed[d])
		b.BurndownData = append(b.BurndownData, model.BurndownPoint{
			Date:            d.Format(model.DateLayout),
			RemainingPoints: remaining,
			IdealRemaining:  idealRemaining(b.TotalPoints, daysBetween(start, d)),
		})
	}
	return b
}

func idealRemaining(total, elapsed int) int {
	ideal := float64(total) - float64(total)*float64(elapsed)/burndownDays
	return int(math.Round(math.Max(0, ideal)))
}
