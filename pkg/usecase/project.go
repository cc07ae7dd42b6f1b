package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/service/github"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
)

type ProjectUseCase struct {
	repo  interfaces.Repository
	board github.Service
}

func NewProjectUseCase(repo interfaces.Repository, board github.Service) *ProjectUseCase {
	return &ProjectUseCase{
		repo:  repo,
		board: board,
	}
}

// RegisterProject binds a board to the user. When a board service is
// configured the repository must be reachable with its credentials.
func (uc *ProjectUseCase) RegisterProject(ctx context.Context, p *model.Project) (*model.Project, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.repo.Project().FindByBoard(ctx, p.UserID, p.Owner, p.Repo, p.BoardNumber)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up project")
	}
	if existing != nil {
		return nil, goerr.Wrap(ErrProjectAlreadyExists, "duplicate registration",
			goerr.V(ProjectIDKey, existing.ID),
			goerr.V("repository", p.FullName()),
			goerr.V("board_number", p.BoardNumber))
	}

	if uc.board != nil {
		validation, err := uc.board.ValidateRepository(ctx, p.Owner, p.Repo)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to validate repository", goerr.V("repository", p.FullName()))
		}
		if !validation.Valid {
			return nil, goerr.Wrap(ErrRepositoryInaccessible, validation.ErrorMessage,
				goerr.V("repository", p.FullName()))
		}
	}

	created, err := uc.repo.Project().Create(ctx, p)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create project")
	}

	logging.From(ctx).Info("project registered",
		"project_id", created.ID,
		"repository", created.FullName(),
		"board_number", created.BoardNumber)

	return created, nil
}

// ListProjects returns the projects owned by userID, newest first
func (uc *ProjectUseCase) ListProjects(ctx context.Context, userID string) ([]*model.Project, error) {
	projects, err := uc.repo.Project().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects", goerr.V(UserIDKey, userID))
	}
	return projects, nil
}

// ListAllProjects returns every registered project
func (uc *ProjectUseCase) ListAllProjects(ctx context.Context) ([]*model.Project, error) {
	projects, err := uc.repo.Project().ListAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects")
	}
	return projects, nil
}

// GetProject returns the project when it exists and is owned by userID.
// Both a missing project and another user's project are ErrProjectNotFound.
func (uc *ProjectUseCase) GetProject(ctx context.Context, userID string, id int64) (*model.Project, error) {
	p, err := uc.repo.Project().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project", goerr.V(ProjectIDKey, id))
	}
	if p == nil || p.UserID != userID {
		return nil, goerr.Wrap(ErrProjectNotFound, "project not found",
			goerr.V(ProjectIDKey, id), goerr.V(UserIDKey, userID))
	}
	return p, nil
}
