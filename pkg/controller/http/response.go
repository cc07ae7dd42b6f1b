package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/utils/errutil"
	"github.com/secmon-lab/boardsight/pkg/utils/safe"
)

type projectResponse struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	GitHubOwner         string     `json:"github_owner"`
	GitHubRepo          string     `json:"github_repo"`
	GitHubProjectNumber int        `json:"github_project_number"`
	LastSyncedAt        *time.Time `json:"last_synced_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func toProjectResponse(p *model.Project) projectResponse {
	return projectResponse{
		ID:                  p.ID,
		Name:                p.Name,
		GitHubOwner:         p.Owner,
		GitHubRepo:          p.Repo,
		GitHubProjectNumber: p.BoardNumber,
		LastSyncedAt:        p.LastSyncedAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

type assigneeResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type workItemResponse struct {
	ID                int64             `json:"id"`
	GitHubItemID      string            `json:"github_item_id"`
	GitHubIssueNumber *int              `json:"github_issue_number"`
	Title             string            `json:"title"`
	Status            string            `json:"status"`
	SizeEstimate      *int              `json:"size_estimate"`
	Priority          string            `json:"priority"`
	ItemType          string            `json:"item_type"`
	StartDate         *string           `json:"start_date"`
	EndDate           *string           `json:"end_date"`
	Milestone         *string           `json:"milestone"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Assignee          *assigneeResponse `json:"assignee"`
}

func toWorkItemResponse(item *model.AssignedWorkItem) workItemResponse {
	resp := workItemResponse{
		ID:                item.ID,
		GitHubItemID:      item.ExternalID,
		GitHubIssueNumber: item.IssueNumber,
		Title:             item.Title,
		Status:            item.Status.String(),
		SizeEstimate:      item.SizeEstimate,
		Priority:          item.Priority,
		ItemType:          item.ItemType,
		StartDate:         formatDate(item.StartDate),
		EndDate:           formatDate(item.EndDate),
		Milestone:         item.Milestone,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
	if item.Assignee != nil {
		resp.Assignee = &assigneeResponse{
			Username:    item.Assignee.Login,
			DisplayName: item.Assignee.DisplayName,
			AvatarURL:   item.Assignee.AvatarURL,
		}
	}
	return resp
}

type syncLogResponse struct {
	ID           int64      `json:"id"`
	SyncType     string     `json:"sync_type"`
	Status       string     `json:"status"`
	ItemsSynced  int        `json:"items_synced"`
	ItemsFailed  int        `json:"items_failed"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

func toSyncLogResponse(l *model.SyncLog) syncLogResponse {
	return syncLogResponse{
		ID:           l.ID,
		SyncType:     l.SyncType,
		Status:       l.Status.String(),
		ItemsSynced:  l.ItemsSynced,
		ItemsFailed:  l.ItemsFailed,
		ErrorMessage: l.ErrorMessage,
		StartedAt:    l.StartedAt,
		CompletedAt:  l.CompletedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(model.DateLayout)
	return &s
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}
