package model

import "github.com/secmon-lab/boardsight/pkg/domain/types"

// Progress counts items per lifecycle bucket
type Progress struct {
	TotalItems         int `json:"total_items"`
	CompletedItems     int `json:"completed_items"`
	InProgressItems    int `json:"in_progress_items"`
	TodoItems          int `json:"todo_items"`
	ProgressPercentage int `json:"progress_percentage"`
}

// StatusCount is one slice of the status distribution
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// WeeklyVelocity is the completed work of one week. Week is the Monday the
// week starts on.
type WeeklyVelocity struct {
	Week            string `json:"week"`
	CompletedPoints int    `json:"completed_points"`
	CompletedItems  int    `json:"completed_items"`
}

type Velocity struct {
	WeeklyData      []WeeklyVelocity `json:"weekly_data"`
	AverageVelocity int              `json:"average_velocity"`
}

type BurndownPoint struct {
	Date            string `json:"date"`
	RemainingPoints int    `json:"remaining_points"`
	IdealRemaining  int    `json:"ideal_remaining"`
}

type Burndown struct {
	TotalPoints  int             `json:"total_points"`
	TotalItems   int             `json:"total_items"`
	BurndownData []BurndownPoint `json:"burndown_data"`
}

// Workload is the work assigned to one person
type Workload struct {
	Assignee        string `json:"assignee"`
	TotalItems      int    `json:"total_items"`
	CompletedItems  int    `json:"completed_items"`
	InProgressItems int    `json:"in_progress_items"`
	TodoItems       int    `json:"todo_items"`
	TotalPoints     int    `json:"total_points"`
}

type EnhancedWorkload struct {
	Workload
	GitHubUsername    string             `json:"github_username,omitempty"`
	DisplayName       string             `json:"display_name,omitempty"`
	CompletedPoints   int                `json:"completed_points"`
	CompletionRate    int                `json:"completion_rate"`
	AvgInProgressDays float64            `json:"avg_in_progress_days"`
	StaleItems        int                `json:"stale_items"`
	WorkloadRisk      types.WorkloadRisk `json:"workload_risk"`
}

type Milestone struct {
	Name                 string                `json:"name"`
	TotalItems           int                   `json:"total_items"`
	CompletedItems       int                   `json:"completed_items"`
	CompletionPercentage int                   `json:"completion_percentage"`
	EarliestStart        *string               `json:"earliest_start"`
	LatestEnd            *string               `json:"latest_end"`
	AvgCompletionDays    *float64              `json:"avg_completion_days"`
	Status               types.MilestoneStatus `json:"status"`
}

// RiskFactors are the inputs of the risk score
type RiskFactors struct {
	VelocityTrend     types.VelocityTrend `json:"velocity_trend"`
	VelocityDeclining bool                `json:"velocity_declining"`
	BlockedItems      int                 `json:"blocked_items"`
	LongBlockedItems  int                 `json:"long_blocked_items"`
	OverdueItems      int                 `json:"overdue_items"`
	SeverelyOverdue   int                 `json:"severely_overdue"`
}

type Recommendation struct {
	Type     types.RecommendationType `json:"type"`
	Priority types.Priority           `json:"priority"`
	Message  string                   `json:"message"`
}

type RiskAnalysis struct {
	RiskScore       int              `json:"risk_score"`
	RiskLevel       types.RiskLevel  `json:"risk_level"`
	RiskFactors     RiskFactors      `json:"risk_factors"`
	Recommendations []Recommendation `json:"recommendations"`
}

type FilteredAnalytics struct {
	TotalItems     int     `json:"total_items"`
	CompletedItems int     `json:"completed_items"`
	AvgSize        float64 `json:"avg_size"`
}

// Overview combines several metrics. A metric that failed to compute is nil.
type Overview struct {
	Progress           *Progress     `json:"progress"`
	StatusDistribution []StatusCount `json:"status_distribution"`
	Velocity           *Velocity     `json:"velocity"`
	TeamWorkload       []Workload    `json:"team_workload"`
	Burndown           *Burndown     `json:"burndown"`
}

// Result is the outcome of one metric computation
type Result[T any] struct {
	Value T
	Err   error
}

// Ok reports whether the computation succeeded
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// ValueOr returns the value on success and fallback otherwise
func (r Result[T]) ValueOr(fallback T) T {
	if r.Err != nil {
		return fallback
	}
	return r.Value
}
