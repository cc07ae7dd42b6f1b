package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

type teamMemberRepository struct {
	q querier
}

const teamMemberColumns = `id, project_id, github_login, display_name, avatar_url, created_at`

func scanTeamMember(row pgx.Row) (*model.TeamMember, error) {
	var tm model.TeamMember
	if err := row.Scan(&tm.ID, &tm.ProjectID, &tm.Login, &tm.DisplayName, &tm.AvatarURL, &tm.CreatedAt); err != nil {
		return nil, err
	}
	return &tm, nil
}

// GetOrCreate inserts with ON CONFLICT DO NOTHING, so the existing row wins
// and is returned by the follow-up select
func (r *teamMemberRepository) GetOrCreate(ctx context.Context, tm *model.TeamMember) (*model.TeamMember, error) {
	if tm.Login == "" {
		return nil, goerr.New("team member has no login", goerr.V(model.ProjectIDKey, tm.ProjectID))
	}

	if _, err := r.q.Exec(ctx, `
		INSERT INTO team_members (project_id, github_login, display_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, github_login) DO NOTHING`,
		tm.ProjectID, tm.Login, tm.DisplayName, tm.AvatarURL); err != nil {
		return nil, goerr.Wrap(err, "failed to insert team member",
			goerr.V(model.ProjectIDKey, tm.ProjectID), goerr.V("login", tm.Login))
	}

	member, err := scanTeamMember(r.q.QueryRow(ctx,
		`SELECT `+teamMemberColumns+` FROM team_members WHERE project_id = $1 AND github_login = $2`,
		tm.ProjectID, tm.Login))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get team member",
			goerr.V(model.ProjectIDKey, tm.ProjectID), goerr.V("login", tm.Login))
	}
	return member, nil
}

func (r *teamMemberRepository) List(ctx context.Context, projectID int64) ([]*model.TeamMember, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+teamMemberColumns+` FROM team_members WHERE project_id = $1 ORDER BY github_login`, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list team members", goerr.V(model.ProjectIDKey, projectID))
	}
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.TeamMember, error) {
		return scanTeamMember(row)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan team members", goerr.V(model.ProjectIDKey, projectID))
	}
	return members, nil
}
