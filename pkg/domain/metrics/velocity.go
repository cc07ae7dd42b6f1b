package metrics

import (
	"math"
	"slices"
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

const (
	velocityWindow   = 12 * 7 * day
	velocityMaxWeeks = 6
)

// TeamVelocity reports completed points and items per week over the
// trailing 12 weeks. Only the 6 most recent non-empty weeks are returned,
// oldest first.
func TeamVelocity(items []*model.AssignedWorkItem, now time.Time) *model.Velocity {
	weeks := weeklyCompletions(items, now.Add(-velocityWindow))

	keys := descendingKeys(weeks)
	if len(keys) > velocityMaxWeeks {
		keys = keys[:velocityMaxWeeks]
	}
	slices.Reverse(keys)

	v := &model.Velocity{WeeklyData: make([]model.WeeklyVelocity, 0, len(keys))}
	var total int
	for _, k := range keys {
		v.WeeklyData = append(v.WeeklyData, *weeks[k])
		total += weeks[k].CompletedPoints
	}
	if len(keys) > 0 {
		v.AverageVelocity = int(math.Round(float64(total) / float64(len(keys))))
	}
	return v
}
