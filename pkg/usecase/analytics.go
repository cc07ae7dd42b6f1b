package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/domain/metrics"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// AnalyticsUseCase loads the work items of a project and computes metrics
// over them. Every call reads a fresh snapshot.
type AnalyticsUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

func NewAnalyticsUseCase(repo interfaces.Repository, clock func() time.Time) *AnalyticsUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &AnalyticsUseCase{
		repo:  repo,
		clock: clock,
	}
}

// ListItems returns the items of a project matching filter, most recently
// updated first. A nil filter returns every item.
func (uc *AnalyticsUseCase) ListItems(ctx context.Context, projectID int64, filter *model.WorkItemFilter) ([]*model.AssignedWorkItem, error) {
	items, err := uc.repo.WorkItem().ListAssigned(ctx, projectID, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load work items", goerr.V(ProjectIDKey, projectID))
	}
	return items, nil
}

func (uc *AnalyticsUseCase) Progress(ctx context.Context, projectID int64) (*model.Progress, error) {
	return compute(ctx, uc, projectID, metrics.Progress)
}

func (uc *AnalyticsUseCase) StatusDistribution(ctx context.Context, projectID int64) ([]model.StatusCount, error) {
	return compute(ctx, uc, projectID, metrics.StatusDistribution)
}

func (uc *AnalyticsUseCase) Velocity(ctx context.Context, projectID int64) (*model.Velocity, error) {
	return computeAt(ctx, uc, projectID, metrics.TeamVelocity)
}

func (uc *AnalyticsUseCase) Burndown(ctx context.Context, projectID int64) (*model.Burndown, error) {
	return computeAt(ctx, uc, projectID, metrics.Burndown)
}

func (uc *AnalyticsUseCase) Workload(ctx context.Context, projectID int64) ([]model.Workload, error) {
	return compute(ctx, uc, projectID, metrics.TeamWorkload)
}

func (uc *AnalyticsUseCase) EnhancedWorkload(ctx context.Context, projectID int64) ([]model.EnhancedWorkload, error) {
	return computeAt(ctx, uc, projectID, metrics.EnhancedTeamWorkload)
}

func (uc *AnalyticsUseCase) Milestones(ctx context.Context, projectID int64) ([]model.Milestone, error) {
	return computeAt(ctx, uc, projectID, metrics.MilestoneTimeline)
}

func (uc *AnalyticsUseCase) RiskAnalysis(ctx context.Context, projectID int64) (*model.RiskAnalysis, error) {
	return computeAt(ctx, uc, projectID, metrics.RiskAnalysis)
}

// Filtered summarizes the items matching filter
func (uc *AnalyticsUseCase) Filtered(ctx context.Context, projectID int64, filter *model.WorkItemFilter) (*model.FilteredAnalytics, error) {
	items, err := uc.ListItems(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}
	return metrics.Filtered(items), nil
}

// Overview computes progress, status distribution, velocity, workload and
// burndown concurrently. A part that fails is logged and left nil; the
// overview itself only fails when the context is cancelled.
func (uc *AnalyticsUseCase) Overview(ctx context.Context, projectID int64) (*model.Overview, error) {
	var (
		progress     model.Result[*model.Progress]
		distribution model.Result[[]model.StatusCount]
		velocity     model.Result[*model.Velocity]
		workload     model.Result[[]model.Workload]
		burndown     model.Result[*model.Burndown]
	)

	var eg errgroup.Group
	eg.Go(func() error {
		progress.Value, progress.Err = uc.Progress(ctx, projectID)
		return nil
	})
	eg.Go(func() error {
		distribution.Value, distribution.Err = uc.StatusDistribution(ctx, projectID)
		return nil
	})
	eg.Go(func() error {
		velocity.Value, velocity.Err = uc.Velocity(ctx, projectID)
		return nil
	})
	eg.Go(func() error {
		workload.Value, workload.Err = uc.Workload(ctx, projectID)
		return nil
	})
	eg.Go(func() error {
		burndown.Value, burndown.Err = uc.Burndown(ctx, projectID)
		return nil
	})
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "overview interrupted", goerr.V(ProjectIDKey, projectID))
	}

	logger := logging.From(ctx)
	for name, err := range map[string]error{
		"progress":            progress.Err,
		"status_distribution": distribution.Err,
		"velocity":            velocity.Err,
		"team_workload":       workload.Err,
		"burndown":            burndown.Err,
	} {
		if err != nil {
			logger.Warn("overview metric failed", "metric", name, "project_id", projectID, "error", err.Error())
		}
	}

	return &model.Overview{
		Progress:           progress.ValueOr(nil),
		StatusDistribution: distribution.ValueOr(nil),
		Velocity:           velocity.ValueOr(nil),
		TeamWorkload:       workload.ValueOr(nil),
		Burndown:           burndown.ValueOr(nil),
	}, nil
}

func compute[T any](ctx context.Context, uc *AnalyticsUseCase, projectID int64, fn func([]*model.AssignedWorkItem) T) (T, error) {
	items, err := uc.ListItems(ctx, projectID, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(items), nil
}

func computeAt[T any](ctx context.Context, uc *AnalyticsUseCase, projectID int64, fn func([]*model.AssignedWorkItem, time.Time) T) (T, error) {
	now := uc.clock()
	return compute(ctx, uc, projectID, func(items []*model.AssignedWorkItem) T {
		return fn(items, now)
	})
}
