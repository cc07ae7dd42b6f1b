package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

type projectRepository struct {
	q querier
}

const projectColumns = `id, user_id, name, github_owner, github_repo, board_number, last_synced_at, created_at, updated_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Owner, &p.Repo, &p.BoardNumber,
		&p.LastSyncedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	created, err := scanProject(r.q.QueryRow(ctx, `
		INSERT INTO projects (user_id, name, github_owner, github_repo, board_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+projectColumns,
		p.UserID, p.Name, p.Owner, p.Repo, p.BoardNumber))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert project",
			goerr.V("user_id", p.UserID), goerr.V("repository", p.FullName()), goerr.V("board_number", p.BoardNumber))
	}
	return created, nil
}

func (r *projectRepository) Get(ctx context.Context, id int64) (*model.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project", goerr.V("id", id))
	}
	return p, nil
}

func (r *projectRepository) FindByBoard(ctx context.Context, userID, owner, repo string, boardNumber int) (*model.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE user_id = $1 AND github_owner = $2 AND github_repo = $3 AND board_number = $4`,
		userID, owner, repo, boardNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find project", goerr.V("user_id", userID), goerr.V("owner", owner),
			goerr.V("repo", repo), goerr.V("board_number", boardNumber))
	}
	return p, nil
}

func (r *projectRepository) ListByUser(ctx context.Context, userID string) ([]*model.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *projectRepository) ListAll(ctx context.Context) ([]*model.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
}

func (r *projectRepository) list(ctx context.Context, sql string, args ...any) ([]*model.Project, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects")
	}
	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Project, error) {
		return scanProject(row)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan projects")
	}
	return projects, nil
}

func (r *projectRepository) UpdateLastSyncedAt(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE projects SET last_synced_at = $2, updated_at = now() WHERE id = $1`, id, at.UTC())
	if err != nil {
		return goerr.Wrap(err, "failed to update last synced time", goerr.V("id", id))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
	}
	return nil
}
