package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

func TestStatus_Buckets(t *testing.T) {
	tests := []struct {
		status     types.Status
		completed  bool
		inProgress bool
		todo       bool
	}{
		{status: "Done", completed: true},
		{status: "Completed", completed: true},
		{status: "Closed", completed: true},
		{status: "In Progress", inProgress: true},
		{status: "In Review", inProgress: true},
		{status: "Todo", todo: true},
		{status: "Backlog", todo: true},
		{status: "New", todo: true},
		{status: "done"},
		{status: "QA"},
		{status: ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			gt.Value(t, tt.status.IsCompleted()).Equal(tt.completed)
			gt.Value(t, tt.status.IsInProgress()).Equal(tt.inProgress)
			gt.Value(t, tt.status.IsTodo()).Equal(tt.todo)
		})
	}
}

func TestStatus_IsBlocked(t *testing.T) {
	tests := []struct {
		status types.Status
		want   bool
	}{
		{status: "Blocked", want: true},
		{status: "BLOCKED by infra", want: true},
		{status: "Waiting for review", want: true},
		{status: "In Progress", want: false},
		{status: "Unblocking", want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			gt.Value(t, tt.status.IsBlocked()).Equal(tt.want)
		})
	}
}

func TestStatus_OrUnknown(t *testing.T) {
	gt.Value(t, types.Status("").OrUnknown()).Equal(types.StatusUnknown)
	gt.Value(t, types.Status("QA").OrUnknown()).Equal(types.Status("QA"))
}

func TestStatusSets(t *testing.T) {
	for _, s := range types.CompletedStatuses() {
		gt.Bool(t, s.IsCompleted()).True()
	}
	for _, s := range types.InProgressStatuses() {
		gt.Bool(t, s.IsInProgress()).True()
	}
	for _, s := range types.TodoStatuses() {
		gt.Bool(t, s.IsTodo()).True()
	}
}
