package types

import "fmt"

// SyncStatus represents the state of a sync run recorded in the sync log
type SyncStatus string

const (
	SyncStatusInProgress SyncStatus = "in_progress"
	SyncStatusSuccess    SyncStatus = "success"
	SyncStatusError      SyncStatus = "error"
)

// AllSyncStatuses returns all valid sync statuses
func AllSyncStatuses() []SyncStatus {
	return []SyncStatus{
		SyncStatusInProgress,
		SyncStatusSuccess,
		SyncStatusError,
	}
}

// IsValid checks if the sync status is valid
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusInProgress,
		SyncStatusSuccess,
		SyncStatusError:
		return true
	default:
		return false
	}
}

// IsFinal returns true when the run has finished
func (s SyncStatus) IsFinal() bool {
	return s == SyncStatusSuccess || s == SyncStatusError
}

func (s SyncStatus) String() string {
	return string(s)
}

// ParseSyncStatus parses a string into a SyncStatus
func ParseSyncStatus(s string) (SyncStatus, error) {
	status := SyncStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid sync status: %s", s)
	}
	return status, nil
}
