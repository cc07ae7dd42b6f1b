package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

func runTeamMemberRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("GetOrCreate never updates an existing member", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p := newProject(t, repo)

		first, err := repo.TeamMember().GetOrCreate(ctx, &model.TeamMember{
			ProjectID: p.ID, Login: "bob", DisplayName: "Bob",
		})
		gt.NoError(t, err).Required()

		second, err := repo.TeamMember().GetOrCreate(ctx, &model.TeamMember{
			ProjectID: p.ID, Login: "bob", DisplayName: "Robert",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, second.ID).Equal(first.ID)
		gt.Value(t, second.DisplayName).Equal("Bob")
	})

	t.Run("members are scoped by project", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		p1 := newProject(t, repo)
		p2 := newProject(t, repo)

		for _, p := range []*model.Project{p1, p2} {
			_, err := repo.TeamMember().GetOrCreate(ctx, &model.TeamMember{ProjectID: p.ID, Login: "carol", DisplayName: "carol"})
			gt.NoError(t, err).Required()
		}
		_, err := repo.TeamMember().GetOrCreate(ctx, &model.TeamMember{ProjectID: p1.ID, Login: "alice", DisplayName: "alice"})
		gt.NoError(t, err).Required()

		members, err := repo.TeamMember().List(ctx, p1.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, members).Length(2)
		gt.Value(t, members[0].Login).Equal("alice")
		gt.Value(t, members[1].Login).Equal("carol")
	})

	t.Run("login is required", func(t *testing.T) {
		repo := newRepo(t)
		p := newProject(t, repo)
		_, err := repo.TeamMember().GetOrCreate(context.Background(), &model.TeamMember{ProjectID: p.ID})
		gt.Value(t, err).NotNil()
	})
}
