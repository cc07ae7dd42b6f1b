package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/usecase"
)

const (
	defaultSyncLogLimit = 20
	maxSyncLogLimit     = 100
)

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "ok"})
	}
}

func listProjectsHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Projects []projectResponse `json:"projects"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		projects, err := uc.Project.ListProjects(ctx, model.UserIDFromContext(ctx))
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		resp := response{Projects: make([]projectResponse, len(projects))}
		for i, p := range projects {
			resp.Projects[i] = toProjectResponse(p)
		}
		writeJSON(ctx, w, http.StatusOK, resp)
	}
}

func createProjectHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Name                string `json:"name"`
		GitHubOwner         string `json:"githubOwner"`
		GitHubRepo          string `json:"githubRepo"`
		GitHubProjectNumber int    `json:"githubProjectNumber"`
	}
	type response struct {
		Message string          `json:"message"`
		Project projectResponse `json:"project"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(ctx, w, goerr.Wrap(errBadRequest, "invalid request body", goerr.V("cause", err.Error())))
			return
		}

		created, err := uc.Project.RegisterProject(ctx, &model.Project{
			UserID:      model.UserIDFromContext(ctx),
			Name:        req.Name,
			Owner:       req.GitHubOwner,
			Repo:        req.GitHubRepo,
			BoardNumber: req.GitHubProjectNumber,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusCreated, response{
			Message: "Project created successfully",
			Project: toProjectResponse(created),
		})
	}
}

func syncProjectHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Message     string `json:"message"`
		ItemsSynced int    `json:"items_synced"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		project := projectFromContext(ctx)

		result, err := uc.Sync.SyncProject(ctx, project.ID)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, response{
			Message:     "Sync completed successfully",
			ItemsSynced: result.ItemsSynced,
		})
	}
}

func listSyncLogsHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		SyncLogs []syncLogResponse `json:"sync_logs"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		project := projectFromContext(ctx)

		limit := defaultSyncLogLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				handleError(ctx, w, goerr.Wrap(errBadRequest, "limit must be a positive integer", goerr.V("limit", raw)))
				return
			}
			limit = min(n, maxSyncLogLimit)
		}

		logs, err := uc.Sync.ListSyncLogs(ctx, project.ID, limit)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		resp := response{SyncLogs: make([]syncLogResponse, len(logs))}
		for i, l := range logs {
			resp.SyncLogs[i] = toSyncLogResponse(l)
		}
		writeJSON(ctx, w, http.StatusOK, resp)
	}
}

func listItemsHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Items []workItemResponse `json:"items"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		project := projectFromContext(ctx)

		items, err := uc.Analytics.ListItems(ctx, project.ID, nil)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		resp := response{Items: make([]workItemResponse, len(items))}
		for i, item := range items {
			resp.Items[i] = toWorkItemResponse(item)
		}
		writeJSON(ctx, w, http.StatusOK, resp)
	}
}

// analyticsHandler serves one metric of the project in the request context
func analyticsHandler[T any](compute func(ctx context.Context, projectID int64) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		project := projectFromContext(ctx)

		result, err := compute(ctx, project.ID)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, result)
	}
}

func filteredAnalyticsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		project := projectFromContext(ctx)

		q := r.URL.Query()
		filter, err := model.ParseWorkItemFilter(
			q.Get("startDate"), q.Get("endDate"), q.Get("assignee"), q.Get("status"), q.Get("milestone"))
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		result, err := uc.Analytics.Filtered(ctx, project.ID, filter)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, result)
	}
}
