// Package metrics computes project analytics from a snapshot of work items.
// Every function is pure: the caller loads the items and passes the current
// time, so results are reproducible in tests.
package metrics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

const day = 24 * time.Hour

// Progress counts items per lifecycle bucket
func Progress(items []*model.AssignedWorkItem) *model.Progress {
	p := &model.Progress{TotalItems: len(items)}
	for _, item := range items {
		switch {
		case item.Status.IsCompleted():
			p.CompletedItems++
		case item.Status.IsInProgress():
			p.InProgressItems++
		case item.Status.IsTodo():
			p.TodoItems++
		}
	}
	p.ProgressPercentage = percent(p.CompletedItems, p.TotalItems)
	return p
}

// StatusDistribution groups items by their raw status, most frequent first
func StatusDistribution(items []*model.AssignedWorkItem) []model.StatusCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.Status.OrUnknown().String()]++
	}

	result := make([]model.StatusCount, 0, len(counts))
	for name, n := range counts {
		result = append(result, model.StatusCount{Name: name, Value: n})
	}
	slices.SortFunc(result, func(a, b model.StatusCount) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return result
}

// Filtered aggregates items that already passed a WorkItemFilter
func Filtered(items []*model.AssignedWorkItem) *model.FilteredAnalytics {
	f := &model.FilteredAnalytics{TotalItems: len(items)}

	var sum, sized int
	for _, item := range items {
		if item.Status.IsCompleted() {
			f.CompletedItems++
		}
		if item.SizeEstimate != nil {
			sum += *item.SizeEstimate
			sized++
		}
	}
	if sized > 0 {
		f.AvgSize = round1(float64(sum) / float64(sized))
	}
	return f
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// today returns midnight UTC of now
func today(now time.Time) time.Time {
	return truncateDay(now)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Monday 00:00 UTC of the week containing t
func weekStart(t time.Time) time.Time {
	d := truncateDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func daysBetween(from, to time.Time) int {
	return int(truncateDay(to).Sub(truncateDay(from)) / day)
}

// weeklyCompletions buckets completed-like items updated at or after since by
// week start
func weeklyCompletions(items []*model.AssignedWorkItem, since time.Time) map[time.Time]*model.WeeklyVelocity {
	weeks := make(map[time.Time]*model.WeeklyVelocity)
	for _, item := range items {
		if !item.Status.IsCompleted() || item.UpdatedAt.Before(since) {
			continue
		}
		w := weekStart(item.UpdatedAt)
		v, ok := weeks[w]
		if !ok {
			v = &model.WeeklyVelocity{Week: w.Format(model.DateLayout)}
			weeks[w] = v
		}
		v.CompletedItems++
		v.CompletedPoints += item.Points()
	}
	return weeks
}

// descendingKeys returns the bucket keys, most recent first
func descendingKeys[V any](buckets map[time.Time]V) []time.Time {
	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b time.Time) int { return b.Compare(a) })
	return keys
}
