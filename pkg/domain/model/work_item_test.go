package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

func TestWorkItem_Points(t *testing.T) {
	gt.Number(t, (&model.WorkItem{}).Points()).Equal(1)
	gt.Number(t, (&model.WorkItem{SizeEstimate: ptr(5)}).Points()).Equal(5)
	gt.Number(t, (&model.WorkItem{SizeEstimate: ptr(0)}).Points()).Equal(0)
}

func TestAssignedWorkItem_AssigneeName(t *testing.T) {
	tests := []struct {
		name     string
		assignee *model.TeamMember
		want     string
	}{
		{name: "display name", assignee: &model.TeamMember{Login: "alice", DisplayName: "Alice"}, want: "Alice"},
		{name: "login fallback", assignee: &model.TeamMember{Login: "alice"}, want: "alice"},
		{name: "unassigned", assignee: nil, want: "Unassigned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &model.AssignedWorkItem{WorkItem: &model.WorkItem{}, Assignee: tt.assignee}
			gt.String(t, item.AssigneeName()).Equal(tt.want)
		})
	}
}

func TestNewTeamMember(t *testing.T) {
	m := model.NewTeamMember(7, model.BoardUser{Login: "bob"})
	gt.Number(t, m.ProjectID).Equal(int64(7))
	gt.String(t, m.DisplayName).Equal("bob")
}

func TestProject_Validate(t *testing.T) {
	valid := model.Project{UserID: "u1", Name: "Web", Owner: "acme", Repo: "web", BoardNumber: 3}
	gt.NoError(t, valid.Validate()).Required()
	gt.String(t, valid.FullName()).Equal("acme/web")

	invalid := valid
	invalid.BoardNumber = 0
	gt.Error(t, invalid.Validate())

	invalid = valid
	invalid.Repo = ""
	gt.Error(t, invalid.Validate())
}
