package model

import (
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/types"
)

// SyncTypeFull is the only sync type: every board item is fetched
const SyncTypeFull = "full"

// SyncLog is the append-only audit record of one sync run
type SyncLog struct {
	ID           int64
	ProjectID    int64
	SyncType     string
	Status       types.SyncStatus
	ItemsSynced  int
	ItemsFailed  int
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// SyncResult is returned to the caller of a sync. Per-item failures are not
// part of it; they are recorded in the sync log only.
type SyncResult struct {
	ItemsSynced int `json:"items_synced"`
}
