package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/cli/config"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/usecase"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
	"github.com/secmon-lab/boardsight/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// appConfig groups the configuration shared by commands that run use cases
type appConfig struct {
	repo   config.Repository
	github config.GitHub
	sync   config.Sync
	slack  config.Slack
}

func (x *appConfig) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.github.Flags()...)
	flags = append(flags, x.sync.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	return flags
}

// build opens the repository and wires the use cases. The returned function
// closes the repository.
func (x *appConfig) build(ctx context.Context) (*usecase.UseCases, interfaces.Repository, func(), error) {
	if err := x.sync.Validate(); err != nil {
		return nil, nil, nil, err
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}
	closer := func() { safe.Close(ctx, repo) }

	if err := repo.Migrate(ctx); err != nil {
		closer()
		return nil, nil, nil, goerr.Wrap(err, "failed to migrate schema")
	}

	opts := []usecase.Option{
		usecase.WithSyncTimeout(x.sync.Timeout()),
	}

	board, err := x.github.Configure()
	if err != nil {
		closer()
		return nil, nil, nil, err
	}
	if board != nil {
		opts = append(opts, usecase.WithBoardService(board))
		attrs := x.github.LogAttrs()
		args := make([]any, len(attrs))
		for i, a := range attrs {
			args[i] = a
		}
		logging.Default().Info("GitHub board client enabled", args...)
	} else {
		logging.Default().Warn("GitHub credentials not configured, sync is disabled")
	}

	notifier, err := x.slack.Configure()
	if err != nil {
		closer()
		return nil, nil, nil, err
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier, x.slack.Channel()))
		logging.Default().Info("Slack sync notifications enabled", "slack", x.slack)
	}

	return usecase.New(repo, opts...), repo, closer, nil
}
