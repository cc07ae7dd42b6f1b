package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

type syncLogRepository struct {
	q querier
}

const syncLogColumns = `id, project_id, sync_type, status, items_synced, items_failed, error_message, started_at, completed_at`

func scanSyncLog(row pgx.Row) (*model.SyncLog, error) {
	var l model.SyncLog
	var status string
	if err := row.Scan(&l.ID, &l.ProjectID, &l.SyncType, &status, &l.ItemsSynced, &l.ItemsFailed,
		&l.ErrorMessage, &l.StartedAt, &l.CompletedAt); err != nil {
		return nil, err
	}
	l.Status = types.SyncStatus(status)
	return &l, nil
}

func (r *syncLogRepository) Create(ctx context.Context, log *model.SyncLog) (*model.SyncLog, error) {
	created, err := scanSyncLog(r.q.QueryRow(ctx, `
		INSERT INTO sync_logs (project_id, sync_type, status, items_synced, items_failed, error_message, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+syncLogColumns,
		log.ProjectID, log.SyncType, string(log.Status), log.ItemsSynced, log.ItemsFailed,
		log.ErrorMessage, log.StartedAt, log.CompletedAt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert sync log", goerr.V(model.ProjectIDKey, log.ProjectID))
	}
	return created, nil
}

func (r *syncLogRepository) Finish(ctx context.Context, log *model.SyncLog) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sync_logs
		SET status = $2, items_synced = $3, items_failed = $4, error_message = $5, completed_at = $6
		WHERE id = $1`,
		log.ID, string(log.Status), log.ItemsSynced, log.ItemsFailed, log.ErrorMessage, log.CompletedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to update sync log", goerr.V("sync_log_id", log.ID))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(ErrNotFound, "sync log not found", goerr.V("sync_log_id", log.ID))
	}
	return nil
}

func (r *syncLogRepository) List(ctx context.Context, projectID int64, limit int) ([]*model.SyncLog, error) {
	sql := `SELECT ` + syncLogColumns + ` FROM sync_logs WHERE project_id = $1 ORDER BY started_at DESC, id DESC`
	args := []any{projectID}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sync logs", goerr.V(model.ProjectIDKey, projectID))
	}
	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.SyncLog, error) {
		return scanSyncLog(row)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan sync logs", goerr.V(model.ProjectIDKey, projectID))
	}
	return logs, nil
}
