package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Project binds a local project to one board of the external system
type Project struct {
	ID           int64
	UserID       string
	Name         string
	Owner        string
	Repo         string
	BoardNumber  int
	LastSyncedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "owner/repo"
func (p *Project) FullName() string {
	return fmt.Sprintf("%s/%s", p.Owner, p.Repo)
}

// Validate checks the fields required for registration
func (p *Project) Validate() error {
	if p.UserID == "" {
		return goerr.Wrap(ErrInvalidProject, "user is required")
	}
	if p.Name == "" {
		return goerr.Wrap(ErrInvalidProject, "name is required")
	}
	if p.Owner == "" || p.Repo == "" {
		return goerr.Wrap(ErrInvalidProject, "GitHub owner and repository are required",
			goerr.V("owner", p.Owner), goerr.V("repo", p.Repo))
	}
	if p.BoardNumber <= 0 {
		return goerr.Wrap(ErrInvalidProject, "board number must be positive",
			goerr.V("board_number", p.BoardNumber))
	}
	return nil
}
