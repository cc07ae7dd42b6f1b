// Package postgres implements the repository on PostgreSQL with pgx.
package postgres

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
)

var ErrNotFound = goerr.New("not found")

//go:embed schema.sql
var schema string

// syncLockNamespace seeds the 64-bit advisory lock key taken per project
// during a sync. The key covers the whole BIGSERIAL id range.
const syncLockNamespace = "boardsight.sync"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Postgres struct {
	pool *pgxpool.Pool
	root *store
}

var _ interfaces.Repository = &Postgres{}

// New connects to the database. The schema is not created; call Migrate.
func New(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse database URL")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to connect to database",
			goerr.V("host", cfg.ConnConfig.Host), goerr.V("database", cfg.ConnConfig.Database))
	}

	return &Postgres{pool: pool, root: &store{q: pool}}, nil
}

func (p *Postgres) Project() interfaces.ProjectRepository       { return p.root.Project() }
func (p *Postgres) WorkItem() interfaces.WorkItemRepository     { return p.root.WorkItem() }
func (p *Postgres) TeamMember() interfaces.TeamMemberRepository { return p.root.TeamMember() }
func (p *Postgres) SyncLog() interfaces.SyncLogRepository       { return p.root.SyncLog() }

func (p *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Store) error) error {
	return p.root.RunInTx(ctx, fn)
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return goerr.Wrap(err, "failed to apply schema")
	}
	return nil
}

// TryLockProject takes a session advisory lock on a dedicated connection,
// which stays checked out of the pool until release is called
func (p *Postgres) TryLockProject(ctx context.Context, projectID int64) (func(), bool, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to acquire connection for sync lock")
	}

	var ok bool
	if err := conn.QueryRow(ctx,
		"SELECT pg_try_advisory_lock(hashtextextended($1, $2::bigint))", syncLockNamespace, projectID,
	).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, goerr.Wrap(err, "failed to take sync lock", goerr.V("project_id", projectID))
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}

	release := func() {
		defer conn.Release()
		var unlocked bool
		err := conn.QueryRow(context.Background(),
			"SELECT pg_advisory_unlock(hashtextextended($1, $2::bigint))", syncLockNamespace, projectID,
		).Scan(&unlocked)
		if err != nil || !unlocked {
			// Closing the session drops every advisory lock it holds
			_ = conn.Conn().Close(context.Background())
		}
	}
	return release, true, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// store runs statements on the pool or on a transaction
type store struct {
	q querier
}

func (s *store) Project() interfaces.ProjectRepository       { return &projectRepository{q: s.q} }
func (s *store) WorkItem() interfaces.WorkItemRepository     { return &workItemRepository{q: s.q} }
func (s *store) TeamMember() interfaces.TeamMemberRepository { return &teamMemberRepository{q: s.q} }
func (s *store) SyncLog() interfaces.SyncLogRepository       { return &syncLogRepository{q: s.q} }

// RunInTx begins a transaction on the pool, or a savepoint when s is
// already bound to one
func (s *store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Store) error) error {
	return pgx.BeginFunc(ctx, s.q, func(tx pgx.Tx) error {
		return fn(ctx, &store{q: tx})
	})
}
