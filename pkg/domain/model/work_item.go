package model

import (
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

// UnassignedName labels items without an assignee in workload views
const UnassignedName = "Unassigned"

// WorkItem is the canonical form of one board item
type WorkItem struct {
	ID           int64
	ProjectID    int64
	ExternalID   string
	IssueNumber  *int
	Title        string
	Status       types.Status
	SizeEstimate *int
	Priority     string
	ItemType     string
	StartDate    *time.Time
	EndDate      *time.Time
	Milestone    *string
	AssigneeID   *int64
	Snapshot     []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Points returns the size estimate, counting unestimated items as 1
func (w *WorkItem) Points() int {
	if w.SizeEstimate == nil {
		return 1
	}
	return *w.SizeEstimate
}

// AssignedWorkItem is a work item joined with its assignee, if any
type AssignedWorkItem struct {
	*WorkItem
	Assignee *TeamMember
}

// AssigneeName returns the display name, falling back to the login and then
// to UnassignedName
func (a *AssignedWorkItem) AssigneeName() string {
	if a.Assignee == nil {
		return UnassignedName
	}
	if a.Assignee.DisplayName != "" {
		return a.Assignee.DisplayName
	}
	if a.Assignee.Login != "" {
		return a.Assignee.Login
	}
	return UnassignedName
}
