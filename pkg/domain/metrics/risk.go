package metrics

import (
	"fmt"
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

const (
	trendWindow       = 4 * 7 * day
	longBlockedAfter  = 3 * day
	severelyOverdueBy = 7

	decliningRatio = 0.8
	improvingRatio = 1.2

	maxRiskScore = 100
)

// Score weights
const (
	weightVelocityDeclining = 30
	weightTrendDeclining    = 20
	weightBlocked           = 5
	weightLongBlocked       = 15
	weightOverdue           = 10
	weightSeverelyOverdue   = 25
)

// RiskAnalysis scores delivery risk from the velocity trend, blocked items
// and overdue items
func RiskAnalysis(items []*model.AssignedWorkItem, now time.Time) *model.RiskAnalysis {
	factors := RiskFactorsOf(items, now)
	score := RiskScore(factors)
	return &model.RiskAnalysis{
		RiskScore:       score,
		RiskLevel:       RiskLevelOf(score),
		RiskFactors:     factors,
		Recommendations: Recommendations(factors),
	}
}

// RiskFactorsOf collects the risk inputs from a snapshot
func RiskFactorsOf(items []*model.AssignedWorkItem, now time.Time) model.RiskFactors {
	var f model.RiskFactors

	weeks := weeklyCompletions(items, now.Add(-trendWindow))
	counts := make([]int, 0, len(weeks))
	for _, k := range descendingKeys(weeks) {
		counts = append(counts, weeks[k].CompletedItems)
	}
	f.VelocityTrend, f.VelocityDeclining = VelocityTrendOf(counts)

	t := today(now)
	longBlockedBefore := now.Add(-longBlockedAfter)
	severeBefore := t.AddDate(0, 0, -severelyOverdueBy)

	for _, item := range items {
		if item.Status.IsBlocked() {
			f.BlockedItems++
			if item.UpdatedAt.Before(longBlockedBefore) {
				f.LongBlockedItems++
			}
		}
		if item.EndDate != nil && !item.Status.IsCompleted() {
			end := truncateDay(*item.EndDate)
			if end.Before(t) {
				f.OverdueItems++
			}
			if end.Before(severeBefore) {
				f.SeverelyOverdue++
			}
		}
	}
	return f
}

// VelocityTrendOf compares the two most recent weekly completion counts,
// given most recent first. declining is true when the latest week is below
// 80% of the one before.
func VelocityTrendOf(counts []int) (trend types.VelocityTrend, declining bool) {
	if len(counts) < 2 {
		return types.VelocityTrendInsufficientData, false
	}
	recent, prior := float64(counts[0]), float64(counts[1])
	switch {
	case recent < prior*decliningRatio:
		return types.VelocityTrendDeclining, true
	case recent > prior*improvingRatio:
		return types.VelocityTrendImproving, false
	default:
		return types.VelocityTrendStable, false
	}
}

// RiskScore accumulates the weighted factors, capped at 100. A declining
// velocity is counted by both the flag and the trend.
func RiskScore(f model.RiskFactors) int {
	score := 0
	if f.VelocityDeclining {
		score += weightVelocityDeclining
	}
	if f.VelocityTrend == types.VelocityTrendDeclining {
		score += weightTrendDeclining
	}
	score += weightBlocked * f.BlockedItems
	score += weightLongBlocked * f.LongBlockedItems
	score += weightOverdue * f.OverdueItems
	score += weightSeverelyOverdue * f.SeverelyOverdue
	return min(score, maxRiskScore)
}

func RiskLevelOf(score int) types.RiskLevel {
	switch {
	case score >= 70:
		return types.RiskLevelCritical
	case score >= 40:
		return types.RiskLevelHigh
	case score >= 20:
		return types.RiskLevelMedium
	default:
		return types.RiskLevelLow
	}
}

// Recommendations lists one entry per triggered condition in a fixed order:
// declining velocity, long-blocked items, severely overdue items, recently
// blocked items
func Recommendations(f model.RiskFactors) []model.Recommendation {
	recs := []model.Recommendation{}

	if f.VelocityDeclining {
		recs = append(recs, model.Recommendation{
			Type:     types.RecommendationVelocity,
			Priority: types.PriorityHigh,
			Message:  "Team velocity dropped compared to the previous week. Review scope and capacity for the current iteration.",
		})
	}
	if f.LongBlockedItems > 0 {
		recs = append(recs, model.Recommendation{
			Type:     types.RecommendationBlockers,
			Priority: types.PriorityHigh,
			Message:  fmt.Sprintf("%d item(s) have been blocked for more than 3 days. Escalate the blockers or reassign the work.", f.LongBlockedItems),
		})
	}
	if f.SeverelyOverdue > 0 {
		recs = append(recs, model.Recommendation{
			Type:     types.RecommendationDeadlines,
			Priority: types.PriorityCritical,
			Message:  fmt.Sprintf("%d item(s) are more than a week past their end date. Re-plan the deadlines or cut scope.", f.SeverelyOverdue),
		})
	}
	if f.BlockedItems > 0 && f.LongBlockedItems == 0 {
		recs = append(recs, model.Recommendation{
			Type:     types.RecommendationBlockers,
			Priority: types.PriorityMedium,
			Message:  fmt.Sprintf("%d item(s) were recently blocked. Follow up before they stall.", f.BlockedItems),
		})
	}
	return recs
}
