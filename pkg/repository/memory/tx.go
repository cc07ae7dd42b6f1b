package memory

import (
	"context"

	"github.com/secmon-lab/boardsight/pkg/domain/interfaces"
)

// journal collects undo operations of a transaction in the order the
// writes happened
type journal struct {
	undo []func()
}

// store is a view over Memory. Writes through a store with a journal are
// recorded so that they can be reverted.
type store struct {
	m *Memory
	j *journal
}

func (s *store) Project() interfaces.ProjectRepository       { return &projectRepository{s: s} }
func (s *store) WorkItem() interfaces.WorkItemRepository     { return &workItemRepository{s: s} }
func (s *store) TeamMember() interfaces.TeamMemberRepository { return &teamMemberRepository{s: s} }
func (s *store) SyncLog() interfaces.SyncLogRepository       { return &syncLogRepository{s: s} }

func (s *store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Store) error) (err error) {
	child := &journal{}
	tx := &store{m: s.m, j: child}

	defer func() {
		if r := recover(); r != nil {
			s.m.rollback(child)
			panic(r)
		}
		if err != nil {
			s.m.rollback(child)
			return
		}
		if s.j != nil {
			s.j.undo = append(s.j.undo, child.undo...)
		}
	}()

	return fn(ctx, tx)
}

// record must be called with m.mu held
func (s *store) record(undo func()) {
	if s.j != nil {
		s.j.undo = append(s.j.undo, undo)
	}
}

func (m *Memory) rollback(j *journal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}
