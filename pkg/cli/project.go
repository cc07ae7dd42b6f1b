package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/cli/config"
	"github.com/secmon-lab/boardsight/pkg/usecase"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdProject() *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "Manage registered projects",
		Commands: []*cli.Command{
			cmdProjectAdd(),
			cmdProjectList(),
		},
	}
}

func cmdProjectAdd() *cli.Command {
	var file string
	var appCfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "TOML file with [[project]] entries",
			Required:    true,
			Destination: &file,
		},
	}
	flags = append(flags, appCfg.flags()...)

	return &cli.Command{
		Name:  "add",
		Usage: "Register projects from a TOML file. Already registered boards are skipped",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			seed, err := config.LoadProjectFile(file)
			if err != nil {
				return err
			}

			uc, _, closeRepo, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			logger := logging.Default()
			var created, skipped int
			for _, entry := range seed.Projects {
				p, err := uc.Project.RegisterProject(ctx, entry.ToProject())
				switch {
				case errors.Is(err, usecase.ErrProjectAlreadyExists):
					skipped++
					logger.Info("Project already registered", "name", entry.Name, "repository", entry.Owner+"/"+entry.Repo)
					continue
				case err != nil:
					return goerr.Wrap(err, "failed to register project", goerr.V("name", entry.Name))
				}
				created++
				logger.Info("Project registered", "id", p.ID, "name", p.Name, "repository", p.FullName())
			}

			logger.Info("Project seed applied", "created", created, "skipped", skipped)
			return nil
		},
	}
}

func cmdProjectList() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "list",
		Usage: "List every registered project",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() { _ = repo.Close() }()

			projects, err := usecase.NewProjectUseCase(repo, nil).ListAllProjects(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(c.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSER\tNAME\tREPOSITORY\tBOARD\tLAST SYNCED")
			for _, p := range projects {
				lastSynced := "never"
				if p.LastSyncedAt != nil {
					lastSynced = p.LastSyncedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
					p.ID, p.UserID, p.Name, p.FullName(), p.BoardNumber, lastSynced)
			}
			return tw.Flush()
		},
	}
}
