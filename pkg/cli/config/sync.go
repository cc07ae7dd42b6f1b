package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/service/worker"
	"github.com/urfave/cli/v3"
)

// Sync holds CLI flags for project synchronization
type Sync struct {
	timeout  time.Duration
	schedule string
}

func (x *Sync) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "sync-timeout",
			Usage:       "Maximum duration of one project sync",
			Category:    "Sync",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("BOARDSIGHT_SYNC_TIMEOUT"),
			Destination: &x.timeout,
		},
		&cli.StringFlag{
			Name:        "sync-schedule",
			Usage:       "Cron expression (UTC) for periodic sync of all projects, e.g. \"0 * * * *\" or \"@every 30m\". Empty disables it",
			Category:    "Sync",
			Sources:     cli.EnvVars("BOARDSIGHT_SYNC_SCHEDULE"),
			Destination: &x.schedule,
		},
	}
}

func (x Sync) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("timeout", x.timeout.String()),
		slog.String("schedule", x.schedule),
	)
}

// Validate checks the schedule expression
func (x *Sync) Validate() error {
	if x.timeout < 0 {
		return goerr.Wrap(ErrInvalidConfig, "sync timeout must not be negative", goerr.V("timeout", x.timeout))
	}
	if x.schedule == "" {
		return nil
	}
	if err := worker.ParseSchedule(x.schedule); err != nil {
		return goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V("schedule", x.schedule))
	}
	return nil
}

// Timeout returns the per-project sync timeout. Zero means unbounded.
func (x *Sync) Timeout() time.Duration {
	return x.timeout
}

// Schedule returns the cron expression, empty when periodic sync is disabled
func (x *Sync) Schedule() string {
	return x.schedule
}
