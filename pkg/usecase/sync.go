package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
	"github.com/secmon-lab/boardsight/pkg/service/github"
	"github.com/secmon-lab/boardsight/pkg/service/slack"
	"github.com/secmon-lab/boardsight/pkg/utils/async"
	"github.com/secmon-lab/boardsight/pkg/utils/errutil"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
)

type SyncUseCase struct {
	repo          interfaces.Repository
	board         github.Service
	notifier      slack.Service
	notifyChannel string
	timeout       time.Duration
	clock         func() time.Time

	mu      sync.Mutex
	running map[int64]struct{}
}

type syncOption func(*SyncUseCase)

func withSyncNotifier(svc slack.Service, channelID string) syncOption {
	return func(uc *SyncUseCase) {
		uc.notifier = svc
		uc.notifyChannel = channelID
	}
}

func withSyncTimeout(d time.Duration) syncOption {
	return func(uc *SyncUseCase) {
		uc.timeout = d
	}
}

func withSyncClock(clock func() time.Time) syncOption {
	return func(uc *SyncUseCase) {
		if clock != nil {
			uc.clock = clock
		}
	}
}

func NewSyncUseCase(repo interfaces.Repository, board github.Service, opts ...syncOption) *SyncUseCase {
	uc := &SyncUseCase{
		repo:    repo,
		board:   board,
		clock:   time.Now,
		running: make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SyncProject imports every item of the project's board. Items are upserted
// one by one; a failing item is rolled back alone and counted in the sync
// log. A fetch failure rolls back the whole run and marks the log as error.
func (uc *SyncUseCase) SyncProject(ctx context.Context, projectID int64) (*model.SyncResult, error) {
	if uc.board == nil {
		return nil, goerr.Wrap(ErrBoardServiceNotConfigured, "cannot sync", goerr.V(ProjectIDKey, projectID))
	}

	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project", goerr.V(ProjectIDKey, projectID))
	}
	if project == nil {
		return nil, goerr.Wrap(ErrProjectNotFound, "project not found", goerr.V(ProjectIDKey, projectID))
	}

	if !uc.claim(projectID) {
		return nil, goerr.Wrap(ErrSyncInProgress, "sync already running in this process", goerr.V(ProjectIDKey, projectID))
	}
	defer uc.unclaim(projectID)

	release, ok, err := uc.repo.TryLockProject(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to acquire project sync lock", goerr.V(ProjectIDKey, projectID))
	}
	if !ok {
		return nil, goerr.Wrap(ErrSyncInProgress, "sync lock held by another instance", goerr.V(ProjectIDKey, projectID))
	}
	defer release()

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	syncID := uuid.NewString()
	logger := logging.From(ctx).With("sync_id", syncID, "project_id", projectID)
	ctx = logging.With(ctx, logger)

	run, err := newSyncRun(syncID, projectID)
	if err != nil {
		return nil, err
	}

	syncLog, err := uc.repo.SyncLog().Create(ctx, &model.SyncLog{
		ProjectID: projectID,
		SyncType:  model.SyncTypeFull,
		Status:    types.SyncStatusInProgress,
		StartedAt: uc.clock(),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create sync log", goerr.V(ProjectIDKey, projectID))
	}

	logger.Info("sync started", "repository", project.FullName(), "board_number", project.BoardNumber)
	startTime := time.Now()

	err = uc.repo.RunInTx(ctx, func(ctx context.Context, tx interfaces.Store) error {
		if err := run.fire(syncEventFetch); err != nil {
			return err
		}
		items, err := uc.fetchAll(ctx, project)
		if err != nil {
			return err
		}

		if err := run.fire(syncEventProcess); err != nil {
			return err
		}
		syncLog.ItemsSynced, syncLog.ItemsFailed = uc.processItems(ctx, tx, projectID, items)
		if err := ctx.Err(); err != nil {
			return goerr.Wrap(err, "sync interrupted", goerr.V(ProjectIDKey, projectID))
		}

		now := uc.clock()
		syncLog.Status = types.SyncStatusSuccess
		syncLog.CompletedAt = &now
		if err := tx.SyncLog().Finish(ctx, syncLog); err != nil {
			return goerr.Wrap(err, "failed to finish sync log")
		}
		if err := tx.Project().UpdateLastSyncedAt(ctx, projectID, now); err != nil {
			return goerr.Wrap(err, "failed to update last synced time")
		}
		return nil
	})

	if err != nil {
		phase := run.current()
		if ferr := run.fire(syncEventFail); ferr != nil {
			_ = errutil.Handle(ctx, ferr, "failed to mark sync run as failed")
		}
		uc.recordFailure(ctx, syncLog, phase, err)
		uc.notify(ctx, project, syncLog)
		return nil, err
	}

	// Data is already committed at this point
	if err := run.fire(syncEventSucceed); err != nil {
		_ = errutil.Handle(ctx, err, "failed to mark sync run as succeeded")
	}
	logger.Info("sync completed",
		"items_synced", syncLog.ItemsSynced,
		"items_failed", syncLog.ItemsFailed,
		"duration", time.Since(startTime).String(),
		"state", run.current())
	project.LastSyncedAt = syncLog.CompletedAt
	uc.notify(ctx, project, syncLog)

	return &model.SyncResult{ItemsSynced: syncLog.ItemsSynced}, nil
}

// SyncAll syncs every registered project sequentially. Failures are logged
// and do not stop the loop; the returned error only reports listing failure
// or cancellation.
func (uc *SyncUseCase) SyncAll(ctx context.Context) error {
	projects, err := uc.repo.Project().ListAll(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list projects")
	}

	var succeeded, failed int
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return goerr.Wrap(err, "sync of all projects interrupted",
				goerr.V("succeeded", succeeded), goerr.V("failed", failed))
		}

		if _, err := uc.SyncProject(ctx, p.ID); err != nil {
			failed++
			_ = errutil.Handle(ctx, err, "failed to sync project")
			continue
		}
		succeeded++
	}

	logging.From(ctx).Info("synced all projects",
		"projects", len(projects), "succeeded", succeeded, "failed", failed)
	return nil
}

// ListSyncLogs returns the most recent sync logs of a project, newest first
func (uc *SyncUseCase) ListSyncLogs(ctx context.Context, projectID int64, limit int) ([]*model.SyncLog, error) {
	logs, err := uc.repo.SyncLog().List(ctx, projectID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sync logs", goerr.V(ProjectIDKey, projectID))
	}
	return logs, nil
}

func (uc *SyncUseCase) claim(projectID int64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.running[projectID]; ok {
		return false
	}
	uc.running[projectID] = struct{}{}
	return true
}

func (uc *SyncUseCase) unclaim(projectID int64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.running, projectID)
}

func (uc *SyncUseCase) fetchAll(ctx context.Context, project *model.Project) ([]*model.BoardItem, error) {
	var items []*model.BoardItem
	for item, err := range uc.board.FetchProjectItems(ctx, project.Owner, project.Repo, project.BoardNumber) {
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch board items",
				goerr.T(TagBoardFetch),
				goerr.V(ProjectIDKey, project.ID),
				goerr.V("repository", project.FullName()),
				goerr.V("board_number", project.BoardNumber),
				goerr.V("fetched", len(items)))
		}
		items = append(items, item)
	}

	logging.From(ctx).Debug("fetched board items", "count", len(items))
	return items, nil
}

// processItems upserts items in order, each in its own nested transaction.
// synced counts every item that did not fail, including skipped ones.
func (uc *SyncUseCase) processItems(ctx context.Context, tx interfaces.Store, projectID int64, items []*model.BoardItem) (synced, failed int) {
	logger := logging.From(ctx)
	var skipped int

	for _, item := range items {
		if ctx.Err() != nil {
			return synced, failed
		}

		var stored bool
		err := tx.RunInTx(ctx, func(ctx context.Context, tx interfaces.Store) error {
			var err error
			stored, err = syncItem(ctx, tx, projectID, item)
			return err
		})
		if err != nil {
			failed++
			logger.Warn("failed to sync board item",
				"external_id", item.ID,
				"error", err.Error())
			continue
		}

		// Items without content are not failures
		synced++
		if !stored {
			skipped++
		}
	}

	if skipped > 0 {
		logger.Debug("skipped board items without content", "count", skipped)
	}
	return synced, failed
}

// syncItem normalizes one board item and stores it. stored is false for
// items skipped because they have no content.
func syncItem(ctx context.Context, tx interfaces.Store, projectID int64, item *model.BoardItem) (bool, error) {
	w, assignee, ok, err := model.NormalizeBoardItem(item)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	w.ProjectID = projectID

	if assignee != nil {
		member, err := tx.TeamMember().GetOrCreate(ctx, model.NewTeamMember(projectID, *assignee))
		if err != nil {
			return false, goerr.Wrap(err, "failed to resolve assignee",
				goerr.V(model.ExternalIDKey, item.ID), goerr.V("login", assignee.Login))
		}
		w.AssigneeID = &member.ID
	}

	if _, err := tx.WorkItem().Upsert(ctx, w); err != nil {
		return false, goerr.Wrap(err, "failed to upsert work item", goerr.V(model.ExternalIDKey, item.ID))
	}
	return true, nil
}

func (uc *SyncUseCase) recordFailure(ctx context.Context, syncLog *model.SyncLog, phase string, cause error) {
	now := uc.clock()
	syncLog.Status = types.SyncStatusError
	syncLog.ItemsSynced = 0
	syncLog.ItemsFailed = 0
	syncLog.ErrorMessage = cause.Error()
	syncLog.CompletedAt = &now

	// The run context may already be past its deadline
	if err := uc.repo.SyncLog().Finish(context.WithoutCancel(ctx), syncLog); err != nil {
		_ = errutil.Handle(ctx, err, "failed to record sync failure")
	}
	logging.From(ctx).Error("sync failed", "phase", phase, "error", cause.Error())
}

func (uc *SyncUseCase) notify(ctx context.Context, project *model.Project, syncLog *model.SyncLog) {
	if uc.notifier == nil || uc.notifyChannel == "" {
		return
	}

	p := *project
	l := *syncLog
	async.Dispatch(ctx, func(ctx context.Context) error {
		blocks, text := slack.SyncResultMessage(&p, &l)
		if _, err := uc.notifier.PostMessage(ctx, uc.notifyChannel, blocks, text); err != nil {
			return goerr.Wrap(err, "failed to notify sync result",
				goerr.V(ProjectIDKey, p.ID), goerr.V("channel", uc.notifyChannel))
		}
		return nil
	})
}
