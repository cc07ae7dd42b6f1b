package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

type workItemRepository struct {
	q querier
}

const workItemColumns = `w.id, w.project_id, w.external_id, w.issue_number, w.title, w.status, w.size_estimate,
	w.priority, w.item_type, w.start_date, w.end_date, w.milestone, w.assignee_id, w.raw_data,
	w.created_at, w.updated_at`

func workItemDest(w *model.WorkItem, status *string) []any {
	return []any{&w.ID, &w.ProjectID, &w.ExternalID, &w.IssueNumber, &w.Title, status, &w.SizeEstimate,
		&w.Priority, &w.ItemType, &w.StartDate, &w.EndDate, &w.Milestone, &w.AssigneeID, &w.Snapshot,
		&w.CreatedAt, &w.UpdatedAt}
}

func (r *workItemRepository) Upsert(ctx context.Context, w *model.WorkItem) (*model.WorkItem, error) {
	var stored model.WorkItem
	var status string
	err := r.q.QueryRow(ctx, `
		INSERT INTO work_items AS w (project_id, external_id, issue_number, title, status, size_estimate,
			priority, item_type, start_date, end_date, milestone, assignee_id, raw_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (project_id, external_id) DO UPDATE SET
			issue_number  = EXCLUDED.issue_number,
			title         = EXCLUDED.title,
			status        = EXCLUDED.status,
			size_estimate = EXCLUDED.size_estimate,
			priority      = EXCLUDED.priority,
			item_type     = EXCLUDED.item_type,
			start_date    = EXCLUDED.start_date,
			end_date      = EXCLUDED.end_date,
			milestone     = EXCLUDED.milestone,
			assignee_id   = EXCLUDED.assignee_id,
			raw_data      = EXCLUDED.raw_data,
			updated_at    = now()
		RETURNING `+workItemColumns,
		w.ProjectID, w.ExternalID, w.IssueNumber, w.Title, string(w.Status), w.SizeEstimate,
		w.Priority, w.ItemType, w.StartDate, w.EndDate, w.Milestone, w.AssigneeID, w.Snapshot,
	).Scan(workItemDest(&stored, &status)...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert work item",
			goerr.V(model.ProjectIDKey, w.ProjectID), goerr.V(model.ExternalIDKey, w.ExternalID))
	}
	stored.Status = types.Status(status)
	return &stored, nil
}

func (r *workItemRepository) GetByExternalID(ctx context.Context, projectID int64, externalID string) (*model.WorkItem, error) {
	var w model.WorkItem
	var status string
	err := r.q.QueryRow(ctx,
		`SELECT `+workItemColumns+` FROM work_items w WHERE w.project_id = $1 AND w.external_id = $2`,
		projectID, externalID,
	).Scan(workItemDest(&w, &status)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get work item",
			goerr.V(model.ProjectIDKey, projectID), goerr.V(model.ExternalIDKey, externalID))
	}
	w.Status = types.Status(status)
	return &w, nil
}

func (r *workItemRepository) ListAssigned(ctx context.Context, projectID int64, filter *model.WorkItemFilter) ([]*model.AssignedWorkItem, error) {
	where, args := buildFilter(projectID, filter)

	rows, err := r.q.Query(ctx, `
		SELECT `+workItemColumns+`,
			tm.id, tm.github_login, tm.display_name, tm.avatar_url, tm.created_at
		FROM work_items w
		LEFT JOIN team_members tm ON tm.id = w.assignee_id
		WHERE `+where+`
		ORDER BY w.updated_at DESC, w.id DESC`, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list work items", goerr.V(model.ProjectIDKey, projectID))
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.AssignedWorkItem, error) {
		var w model.WorkItem
		var status string
		var (
			memberID                   *int64
			login, displayName, avatar *string
			memberCreatedAt            *time.Time
		)
		dest := append(workItemDest(&w, &status), &memberID, &login, &displayName, &avatar, &memberCreatedAt)
		if err := row.Scan(dest...); err != nil {
			return nil, err
		}
		w.Status = types.Status(status)

		item := &model.AssignedWorkItem{WorkItem: &w}
		if memberID != nil {
			item.Assignee = &model.TeamMember{
				ID:          *memberID,
				ProjectID:   w.ProjectID,
				Login:       deref(login),
				DisplayName: deref(displayName),
				AvatarURL:   deref(avatar),
				CreatedAt:   derefTime(memberCreatedAt),
			}
		}
		return item, nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan work items", goerr.V(model.ProjectIDKey, projectID))
	}
	return items, nil
}

// buildFilter renders the WHERE clause of ListAssigned. Every condition is
// bound as a parameter.
func buildFilter(projectID int64, filter *model.WorkItemFilter) (string, []any) {
	conds := []string{"w.project_id = $1"}
	args := []any{projectID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter != nil {
		if filter.UpdatedFrom != nil {
			add("w.updated_at >= $%d", *filter.UpdatedFrom)
		}
		if filter.UpdatedBefore != nil {
			add("w.updated_at < $%d", *filter.UpdatedBefore)
		}
		if filter.Assignee != nil {
			args = append(args, *filter.Assignee)
			n := len(args)
			conds = append(conds, fmt.Sprintf("(tm.github_login = $%d OR tm.display_name = $%d)", n, n))
		}
		if filter.Status != nil {
			add("w.status = $%d", *filter.Status)
		}
		if filter.Milestone != nil {
			add("w.milestone = $%d", *filter.Milestone)
		}
	}

	return strings.Join(conds, " AND "), args
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
