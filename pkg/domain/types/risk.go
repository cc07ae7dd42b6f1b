package types

// RiskLevel is the overall project risk derived from the risk score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// WorkloadRisk tags the overload or staleness exposure of one assignee
type WorkloadRisk string

const (
	WorkloadRiskLow    WorkloadRisk = "low"
	WorkloadRiskMedium WorkloadRisk = "medium"
	WorkloadRiskHigh   WorkloadRisk = "high"
)

// VelocityTrend compares the two most recent weeks of completions
type VelocityTrend string

const (
	VelocityTrendImproving        VelocityTrend = "improving"
	VelocityTrendStable           VelocityTrend = "stable"
	VelocityTrendDeclining        VelocityTrend = "declining"
	VelocityTrendInsufficientData VelocityTrend = "insufficient_data"
)

// MilestoneStatus is the delivery status of a milestone
type MilestoneStatus string

const (
	MilestoneStatusCompleted MilestoneStatus = "completed"
	MilestoneStatusOverdue   MilestoneStatus = "overdue"
	MilestoneStatusAtRisk    MilestoneStatus = "at_risk"
	MilestoneStatusOnTrack   MilestoneStatus = "on_track"
)

// RecommendationType groups recommendations by the condition that raised them
type RecommendationType string

const (
	RecommendationVelocity  RecommendationType = "velocity"
	RecommendationBlockers  RecommendationType = "blockers"
	RecommendationDeadlines RecommendationType = "deadlines"
)

// Priority of a recommendation
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
)
