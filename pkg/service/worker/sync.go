package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"github.com/secmon-lab/boardsight/pkg/utils/errutil"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
)

// Syncer synchronizes every registered project
type Syncer interface {
	SyncAll(ctx context.Context) error
}

// SyncWorker runs Syncer.SyncAll on a cron schedule. A run that is still in
// progress when the next tick fires makes that tick a no-op.
//
// Cross-instance exclusion relies on the per-project sync lock, so several
// instances may run the schedule without syncing the same project twice.
type SyncWorker struct {
	syncer     Syncer
	schedule   string
	runTimeout time.Duration
	runOnStart bool

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type SyncWorkerOption func(*SyncWorker)

// WithRunTimeout bounds one SyncAll run. Zero leaves it unbounded.
func WithRunTimeout(d time.Duration) SyncWorkerOption {
	return func(w *SyncWorker) { w.runTimeout = d }
}

// WithRunOnStart triggers a run right after Start
func WithRunOnStart() SyncWorkerOption {
	return func(w *SyncWorker) { w.runOnStart = true }
}

// NewSyncWorker creates a worker. schedule is a five-field cron expression
// or a descriptor such as "@hourly" or "@every 30m", evaluated in UTC.
func NewSyncWorker(syncer Syncer, schedule string, opts ...SyncWorkerOption) *SyncWorker {
	w := &SyncWorker{
		syncer:     syncer,
		schedule:   schedule,
		runTimeout: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ParseSchedule validates a schedule expression
func ParseSchedule(schedule string) error {
	if _, err := scheduleParser().Parse(schedule); err != nil {
		return goerr.Wrap(err, "invalid sync schedule", goerr.V("schedule", schedule))
	}
	return nil
}

func scheduleParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Start registers the schedule and begins the background loop. It does not
// block.
func (w *SyncWorker) Start(ctx context.Context) error {
	logger := logging.From(ctx)
	cl := &cronLogger{logger: logger}

	w.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithParser(scheduleParser()),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	w.ctx, w.cancel = context.WithCancel(context.WithoutCancel(ctx))

	id, err := w.cron.AddFunc(w.schedule, w.run)
	if err != nil {
		w.cancel()
		return goerr.Wrap(err, "invalid sync schedule", goerr.V("schedule", w.schedule))
	}

	logger.Info("Sync worker starting", "schedule", w.schedule, "run_timeout", w.runTimeout.String())
	w.cron.Start()

	if w.runOnStart {
		job := w.cron.Entry(id).WrappedJob
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			job.Run()
		}()
	}
	return nil
}

// Stop cancels a running sync and waits until it returns
func (w *SyncWorker) Stop() {
	if w.cron == nil {
		return
	}
	logger := logging.From(w.ctx)
	logger.Info("Sync worker stopping")

	w.cancel()
	<-w.cron.Stop().Done()
	w.wg.Wait()

	logger.Info("Sync worker stopped")
}

func (w *SyncWorker) run() {
	ctx := w.ctx
	if w.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.runTimeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.From(ctx).Info("Scheduled sync started")

	if err := w.syncer.SyncAll(ctx); err != nil {
		_ = errutil.Handle(ctx, err, "Scheduled sync failed")
		return
	}

	logging.From(ctx).Info("Scheduled sync completed", "duration", time.Since(startTime).String())
}

// cronLogger adapts slog to cron.Logger
type cronLogger struct {
	logger *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err.Error())...)
}
