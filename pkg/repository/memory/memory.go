// Package memory is an in-process implementation of the repository. It is
// meant for development and tests: transactions roll back by replaying an
// undo journal and provide no isolation from concurrent writers.
package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
)

var ErrNotFound = goerr.New("not found")

type itemKey struct {
	projectID  int64
	externalID string
}

type memberKey struct {
	projectID int64
	login     string
}

type Memory struct {
	mu sync.RWMutex

	projects    map[int64]*model.Project
	workItems   map[int64]*model.WorkItem
	itemIndex   map[itemKey]int64
	members     map[int64]*model.TeamMember
	memberIndex map[memberKey]int64
	syncLogs    map[int64]*model.SyncLog

	nextProjectID  int64
	nextWorkItemID int64
	nextMemberID   int64
	nextSyncLogID  int64

	lockMu sync.Mutex
	locks  map[int64]struct{}

	root *store
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	m := &Memory{
		projects:       make(map[int64]*model.Project),
		workItems:      make(map[int64]*model.WorkItem),
		itemIndex:      make(map[itemKey]int64),
		members:        make(map[int64]*model.TeamMember),
		memberIndex:    make(map[memberKey]int64),
		syncLogs:       make(map[int64]*model.SyncLog),
		nextProjectID:  1,
		nextWorkItemID: 1,
		nextMemberID:   1,
		nextSyncLogID:  1,
		locks:          make(map[int64]struct{}),
	}
	m.root = &store{m: m}
	return m
}

func (m *Memory) Project() interfaces.ProjectRepository       { return m.root.Project() }
func (m *Memory) WorkItem() interfaces.WorkItemRepository     { return m.root.WorkItem() }
func (m *Memory) TeamMember() interfaces.TeamMemberRepository { return m.root.TeamMember() }
func (m *Memory) SyncLog() interfaces.SyncLogRepository       { return m.root.SyncLog() }

func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Store) error) error {
	return m.root.RunInTx(ctx, fn)
}

func (m *Memory) TryLockProject(ctx context.Context, projectID int64) (func(), bool, error) {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()

	if _, held := m.locks[projectID]; held {
		return nil, false, nil
	}
	m.locks[projectID] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.lockMu.Lock()
			delete(m.locks, projectID)
			m.lockMu.Unlock()
		})
	}
	return release, true, nil
}

func (m *Memory) Migrate(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
