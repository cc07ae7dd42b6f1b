package types

import "strings"

// Status is the free-text status of a work item as defined by the external
// board. It is never validated against a closed set; the lifecycle buckets
// below are membership tests on the exact text.
type Status string

// StatusUnknown is used when neither the board field nor the content state
// carries a status
const StatusUnknown Status = "Unknown"

var (
	completedStatuses = map[Status]struct{}{
		"Done":      {},
		"Completed": {},
		"Closed":    {},
	}
	inProgressStatuses = map[Status]struct{}{
		"In Progress": {},
		"In Review":   {},
	}
	todoStatuses = map[Status]struct{}{
		"Todo":    {},
		"Backlog": {},
		"New":     {},
	}
)

// CompletedStatuses returns the statuses counted as completed
func CompletedStatuses() []Status { return []Status{"Done", "Completed", "Closed"} }

// InProgressStatuses returns the statuses counted as in progress
func InProgressStatuses() []Status { return []Status{"In Progress", "In Review"} }

// TodoStatuses returns the statuses counted as not started
func TodoStatuses() []Status { return []Status{"Todo", "Backlog", "New"} }

func (s Status) IsCompleted() bool {
	_, ok := completedStatuses[s]
	return ok
}

func (s Status) IsInProgress() bool {
	_, ok := inProgressStatuses[s]
	return ok
}

func (s Status) IsTodo() bool {
	_, ok := todoStatuses[s]
	return ok
}

// IsBlocked reports whether the status text mentions "blocked" or "waiting",
// case-insensitively
func (s Status) IsBlocked() bool {
	lower := strings.ToLower(string(s))
	return strings.Contains(lower, "blocked") || strings.Contains(lower, "waiting")
}

// OrUnknown maps an empty status to StatusUnknown
func (s Status) OrUnknown() Status {
	if s == "" {
		return StatusUnknown
	}
	return s
}

func (s Status) String() string {
	return string(s)
}
