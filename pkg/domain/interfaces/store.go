package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

// ProjectRepository defines the interface for Project data access
type ProjectRepository interface {
	// Create stores a new project with an auto-generated ID. The
	// (user, owner, repo, board) tuple must be unique.
	Create(ctx context.Context, p *model.Project) (*model.Project, error)

	// Get retrieves a project by ID. Returns nil, nil if it does not exist.
	Get(ctx context.Context, id int64) (*model.Project, error)

	// FindByBoard retrieves the project of a user bound to a board.
	// Returns nil, nil if no such project exists.
	FindByBoard(ctx context.Context, userID, owner, repo string, boardNumber int) (*model.Project, error)

	// ListByUser returns the projects of a user, newest first
	ListByUser(ctx context.Context, userID string) ([]*model.Project, error)

	// ListAll returns every registered project ordered by ID
	ListAll(ctx context.Context) ([]*model.Project, error)

	// UpdateLastSyncedAt records a successful sync
	UpdateLastSyncedAt(ctx context.Context, id int64, at time.Time) error
}

// WorkItemRepository defines the interface for WorkItem data access
type WorkItemRepository interface {
	// Upsert inserts the item or, when (ProjectID, ExternalID) already
	// exists, overwrites every mutable field and bumps UpdatedAt. CreatedAt
	// of an existing row is kept.
	Upsert(ctx context.Context, w *model.WorkItem) (*model.WorkItem, error)

	// GetByExternalID returns nil, nil if the item does not exist
	GetByExternalID(ctx context.Context, projectID int64, externalID string) (*model.WorkItem, error)

	// ListAssigned returns the items of a project joined with their
	// assignee, most recently updated first. A nil filter matches all items.
	ListAssigned(ctx context.Context, projectID int64, filter *model.WorkItemFilter) ([]*model.AssignedWorkItem, error)
}

// TeamMemberRepository defines the interface for TeamMember data access
type TeamMemberRepository interface {
	// GetOrCreate returns the member with the same (ProjectID, Login), or
	// creates it from m. An existing row is never updated.
	GetOrCreate(ctx context.Context, m *model.TeamMember) (*model.TeamMember, error)

	// List returns the members of a project ordered by login
	List(ctx context.Context, projectID int64) ([]*model.TeamMember, error)
}

// SyncLogRepository defines the interface for SyncLog data access
type SyncLogRepository interface {
	// Create appends a new log row with an auto-generated ID
	Create(ctx context.Context, log *model.SyncLog) (*model.SyncLog, error)

	// Finish records the final status, counters, error message and
	// completion time of a log row
	Finish(ctx context.Context, log *model.SyncLog) error

	// List returns the most recent logs of a project, newest first. limit <=
	// 0 means no limit.
	List(ctx context.Context, projectID int64, limit int) ([]*model.SyncLog, error)
}
