package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrProjectNotFound = errors.New("project not found")

	// Conflict errors
	ErrProjectAlreadyExists = errors.New("project already registered for this board")
	ErrSyncInProgress       = errors.New("sync already in progress for this project")

	// Validation errors
	ErrRepositoryInaccessible = errors.New("GitHub repository is not accessible")

	// Configuration errors
	ErrBoardServiceNotConfigured = errors.New("GitHub board service is not configured")

	// Internal errors
	ErrInvalidSyncTransition = errors.New("invalid sync run transition")
)

// TagBoardFetch marks errors raised while fetching items from the board
var TagBoardFetch = goerr.NewTag("board_fetch")

// Context keys for error values
const (
	ProjectIDKey = "project_id"
	SyncIDKey    = "sync_id"
	UserIDKey    = "user_id"
)
