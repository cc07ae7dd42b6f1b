package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

// DateLayout is the wire format of date-only values
const DateLayout = "2006-01-02"

// WorkItemFilter narrows the items considered by filtered analytics. Nil
// fields are not applied; the others are AND-combined.
type WorkItemFilter struct {
	// UpdatedFrom is inclusive, UpdatedBefore exclusive
	UpdatedFrom   *time.Time
	UpdatedBefore *time.Time
	// Assignee matches the login or the display name
	Assignee  *string
	Status    *string
	Milestone *string
}

// ParseWorkItemFilter builds a filter from optional query values. Dates are
// YYYY-MM-DD and the range covers whole days on both ends.
func ParseWorkItemFilter(startDate, endDate, assignee, status, milestone string) (*WorkItemFilter, error) {
	f := &WorkItemFilter{}

	if startDate != "" {
		d, err := time.Parse(DateLayout, startDate)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidFilter, "invalid start date", goerr.V("start_date", startDate))
		}
		f.UpdatedFrom = &d
	}
	if endDate != "" {
		d, err := time.Parse(DateLayout, endDate)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidFilter, "invalid end date", goerr.V("end_date", endDate))
		}
		next := d.AddDate(0, 0, 1)
		f.UpdatedBefore = &next
	}
	if f.UpdatedFrom != nil && f.UpdatedBefore != nil && !f.UpdatedFrom.Before(*f.UpdatedBefore) {
		return nil, goerr.Wrap(ErrInvalidFilter, "start date is after end date",
			goerr.V("start_date", startDate), goerr.V("end_date", endDate))
	}

	if assignee != "" {
		f.Assignee = &assignee
	}
	if status != "" {
		f.Status = &status
	}
	if milestone != "" {
		f.Milestone = &milestone
	}

	return f, nil
}

// IsEmpty reports whether no condition is set
func (f *WorkItemFilter) IsEmpty() bool {
	return f == nil || (f.UpdatedFrom == nil && f.UpdatedBefore == nil &&
		f.Assignee == nil && f.Status == nil && f.Milestone == nil)
}

// Match evaluates the filter against one item
func (f *WorkItemFilter) Match(item *AssignedWorkItem) bool {
	if f == nil {
		return true
	}
	if f.UpdatedFrom != nil && item.UpdatedAt.Before(*f.UpdatedFrom) {
		return false
	}
	if f.UpdatedBefore != nil && !item.UpdatedAt.Before(*f.UpdatedBefore) {
		return false
	}
	if f.Assignee != nil {
		if item.Assignee == nil {
			return false
		}
		if item.Assignee.Login != *f.Assignee && item.Assignee.DisplayName != *f.Assignee {
			return false
		}
	}
	if f.Status != nil && item.Status != types.Status(*f.Status) {
		return false
	}
	if f.Milestone != nil && (item.Milestone == nil || *item.Milestone != *f.Milestone) {
		return false
	}
	return true
}
