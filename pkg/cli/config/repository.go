package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/repository/memory"
	"github.com/secmon-lab/boardsight/pkg/repository/postgres"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend     string
	databaseURL string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (postgres or memory)",
			Category:    "Repository",
			Value:       BackendPostgres,
			Sources:     cli.EnvVars("BOARDSIGHT_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "database-url",
			Usage:       "PostgreSQL connection URL (required when using postgres backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("BOARDSIGHT_DATABASE_URL", "DATABASE_URL"),
			Destination: &r.databaseURL,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.Bool("database_url.set", r.databaseURL != ""),
	)
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendPostgres:
		if r.databaseURL == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "database-url is required when using postgres backend")
		}
		repo, err := postgres.New(ctx, r.databaseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres repository")
		}
		logging.Default().Info("Using PostgreSQL repository")
		return repo, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid repository backend", goerr.V("backend", r.backend))
	}
}
