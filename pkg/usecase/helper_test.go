package usecase_test

import (
	"context"
	"errors"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/domain/types"
	"github.com/secmon-lab/boardsight/pkg/repository/memory"
	"github.com/secmon-lab/boardsight/pkg/service/github"
	slackgo "github.com/slack-go/slack"
)

// Thursday
var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type mockBoard struct {
	items []*model.BoardItem
	// failAt makes the fetch fail after that many items; <0 disables it
	failAt   int
	fetchErr error
	// gate blocks the fetch until closed when not nil
	gate       chan struct{}
	started    chan struct{}
	validation *github.RepositoryValidation
	fetches    int
	mu         sync.Mutex
}

func newMockBoard(items ...*model.BoardItem) *mockBoard {
	return &mockBoard{items: items, failAt: -1}
}

func (m *mockBoard) FetchProjectItems(ctx context.Context, owner, repo string, number int) iter.Seq2[*model.BoardItem, error] {
	return func(yield func(*model.BoardItem, error) bool) {
		m.mu.Lock()
		m.fetches++
		m.mu.Unlock()

		if m.started != nil {
			close(m.started)
		}
		if m.gate != nil {
			<-m.gate
		}
		for i, item := range m.items {
			if i == m.failAt {
				yield(nil, m.fetchErr)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
		if m.failAt >= len(m.items) {
			yield(nil, m.fetchErr)
		}
	}
}

func (m *mockBoard) ValidateRepository(ctx context.Context, owner, repo string) (*github.RepositoryValidation, error) {
	if m.validation != nil {
		return m.validation, nil
	}
	return &github.RepositoryValidation{Valid: true, Owner: owner, Repo: repo, FullName: owner + "/" + repo}, nil
}

type postedMessage struct {
	channel string
	text    string
}

type mockNotifier struct {
	posted chan postedMessage
}

func (m *mockNotifier) PostMessage(ctx context.Context, channelID string, blocks []slackgo.Block, text string) (string, error) {
	m.posted <- postedMessage{channel: channelID, text: text}
	return "1700000000.000100", nil
}

func boardItem(id, title string, opts ...func(*model.BoardItem)) *model.BoardItem {
	item := &model.BoardItem{
		ID:   id,
		Type: "ISSUE",
		Content: &model.BoardContent{
			Title: title,
			State: "OPEN",
		},
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

func withStatus(status string) func(*model.BoardItem) {
	return func(item *model.BoardItem) {
		item.FieldValues = append(item.FieldValues, model.FieldValue{
			FieldName: "Status",
			Kind:      types.FieldKindSingleSelect,
			Name:      &status,
		})
	}
}

func withSize(size float64) func(*model.BoardItem) {
	return func(item *model.BoardItem) {
		item.FieldValues = append(item.FieldValues, model.FieldValue{
			FieldName: "Size",
			Kind:      types.FieldKindNumber,
			Number:    &size,
		})
	}
}

func withAssignee(login, name string) func(*model.BoardItem) {
	return func(item *model.BoardItem) {
		item.Content.Assignees = append(item.Content.Assignees, model.BoardUser{Login: login, Name: name})
	}
}

func withoutContent() func(*model.BoardItem) {
	return func(item *model.BoardItem) {
		item.Content = nil
	}
}

func createProject(t *testing.T, repo *memory.Memory, userID string) *model.Project {
	t.Helper()
	p, err := repo.Project().Create(context.Background(), &model.Project{
		UserID:      userID,
		Name:        "Roadmap",
		Owner:       "octo-org",
		Repo:        "roadmap",
		BoardNumber: 1,
	})
	gt.NoError(t, err).Required()
	return p
}

var errGitHubDown = errors.New("github is down")
