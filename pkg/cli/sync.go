package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/usecase"
	"github.com/secmon-lab/boardsight/pkg/utils/errutil"
	"github.com/urfave/cli/v3"
)

func cmdSync() *cli.Command {
	var projectIDs []int64
	var appCfg appConfig

	flags := []cli.Flag{
		&cli.Int64SliceFlag{
			Name:        "project-id",
			Aliases:     []string{"p"},
			Usage:       "Project ID to sync (repeatable). All projects are synced when omitted",
			Destination: &projectIDs,
		},
	}
	flags = append(flags, appCfg.flags()...)

	return &cli.Command{
		Name:  "sync",
		Usage: "Sync projects from GitHub once and print a summary",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, _, closeRepo, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			projects, err := selectProjects(ctx, uc, projectIDs)
			if err != nil {
				return err
			}

			var failed int
			for _, p := range projects {
				result, err := uc.Sync.SyncProject(ctx, p.ID)
				if err != nil {
					_ = errutil.Handle(ctx, err, "failed to sync project")
					printSyncFailure(c.Root().Writer, p, err)
					failed++
					continue
				}

				itemsFailed := 0
				if logs, err := uc.Sync.ListSyncLogs(ctx, p.ID, 1); err == nil && len(logs) > 0 {
					itemsFailed = logs[0].ItemsFailed
				}
				printSyncSuccess(c.Root().Writer, p, result, itemsFailed)
			}

			if failed > 0 {
				return goerr.New("some projects failed to sync", goerr.V("failed", failed), goerr.V("total", len(projects)))
			}
			return nil
		},
	}
}

func selectProjects(ctx context.Context, uc *usecase.UseCases, ids []int64) ([]*model.Project, error) {
	all, err := uc.Project.ListAllProjects(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return all, nil
	}

	byID := make(map[int64]*model.Project, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	selected := make([]*model.Project, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, goerr.Wrap(usecase.ErrProjectNotFound, "unknown project", goerr.V(usecase.ProjectIDKey, id))
		}
		selected = append(selected, p)
	}
	return selected, nil
}

func printSyncSuccess(w io.Writer, p *model.Project, result *model.SyncResult, itemsFailed int) {
	ok := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow)

	ok.Fprint(w, "✔ ")
	fmt.Fprintf(w, "%s (%s #%d): %d items synced", p.Name, p.FullName(), p.BoardNumber, result.ItemsSynced)
	if itemsFailed > 0 {
		warn.Fprintf(w, ", %d failed", itemsFailed)
	}
	fmt.Fprintln(w)
}

func printSyncFailure(w io.Writer, p *model.Project, err error) {
	ng := color.New(color.FgRed, color.Bold)

	ng.Fprint(w, "✘ ")
	fmt.Fprintf(w, "%s (%s #%d): %s\n", p.Name, p.FullName(), p.BoardNumber, err.Error())
}
