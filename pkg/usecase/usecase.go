package usecase

import (
	"time"

	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/service/github"
	"github.com/secmon-lab/boardsight/pkg/service/slack"
)

type UseCases struct {
	repo          interfaces.Repository
	board         github.Service
	notifier      slack.Service
	notifyChannel string
	syncTimeout   time.Duration
	clock         func() time.Time

	Project   *ProjectUseCase
	Sync      *SyncUseCase
	Analytics *AnalyticsUseCase
}

type Option func(*UseCases)

// WithBoardService sets the GitHub client used for validation and sync
func WithBoardService(svc github.Service) Option {
	return func(uc *UseCases) {
		uc.board = svc
	}
}

// WithNotifier enables Slack notification of sync outcomes to channelID
func WithNotifier(svc slack.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.notifier = svc
		uc.notifyChannel = channelID
	}
}

// WithSyncTimeout bounds the total duration of one project sync
func WithSyncTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.syncTimeout = d
	}
}

// WithClock replaces time.Now, for tests
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Project = NewProjectUseCase(repo, uc.board)
	uc.Sync = NewSyncUseCase(repo, uc.board,
		withSyncNotifier(uc.notifier, uc.notifyChannel),
		withSyncTimeout(uc.syncTimeout),
		withSyncClock(uc.clock),
	)
	uc.Analytics = NewAnalyticsUseCase(repo, uc.clock)

	return uc
}
