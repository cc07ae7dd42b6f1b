package interfaces

import "context"

// Store gives access to every table. A Store obtained inside RunInTx is
// bound to that transaction.
type Store interface {
	Project() ProjectRepository
	WorkItem() WorkItemRepository
	TeamMember() TeamMemberRepository
	SyncLog() SyncLogRepository

	// RunInTx runs fn in a transaction that is committed when fn returns nil
	// and rolled back otherwise. Calling RunInTx on a transactional Store
	// opens a nested transaction (savepoint): rolling it back keeps the
	// changes of the enclosing one.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Repository defines the interface for data persistence
type Repository interface {
	Store

	// TryLockProject takes the exclusive sync lock of a project without
	// waiting. ok is false when the lock is held elsewhere; otherwise
	// release must be called once the sync finishes.
	TryLockProject(ctx context.Context, projectID int64) (release func(), ok bool, err error)

	// Migrate creates the schema if needed
	Migrate(ctx context.Context) error

	Close() error
}
