package github

import (
	"context"
	"iter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

// ErrBoardNotFound is returned when the repository has no project board
// with the requested number, or the credentials cannot see it
var ErrBoardNotFound = goerr.New("project board not found")

// Service provides interface to GitHub API for fetching project board data
type Service interface {
	// FetchProjectItems returns every item of the ProjectV2 board linked to
	// the repository, following the cursor until the last page. Iteration
	// stops at the first error.
	FetchProjectItems(ctx context.Context, owner, repo string, number int) iter.Seq2[*model.BoardItem, error]

	// ValidateRepository checks if the repository is accessible and returns metadata
	ValidateRepository(ctx context.Context, owner, repo string) (*RepositoryValidation, error)
}

// RepositoryValidation holds the result of repository validation
type RepositoryValidation struct {
	Valid        bool
	Owner        string
	Repo         string
	FullName     string
	Description  string
	IsPrivate    bool
	ErrorMessage string
}
