package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/boardsight/pkg/domain/model"
	"github.com/secmon-lab/boardsight/pkg/usecase"
	"github.com/secmon-lab/boardsight/pkg/utils/errutil"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
)

// DefaultUserHeader is set by the authenticating proxy in front of the server
const DefaultUserHeader = "X-Forwarded-User"

type ctxProjectKey struct{}

// userMiddleware reads the caller identity. Requests without the header act
// as the anonymous user.
func userMiddleware(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(header)
			if userID == "" {
				userID = model.AnonymousUserID
			}

			ctx := model.ContextWithUserID(r.Context(), userID)
			ctx = logging.With(ctx, logging.From(ctx).With("user_id", userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// projectMiddleware resolves {projectID} to a project owned by the caller.
// A project of another user is reported as not found.
func projectMiddleware(uc *usecase.UseCases) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := chi.URLParam(r, "projectID")
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				// Non-numeric ids cannot name an existing project
				handleError(ctx, w, goerr.Wrap(usecase.ErrProjectNotFound, "invalid project id", goerr.V("project_id", raw)))
				return
			}

			project, err := uc.Project.GetProject(ctx, model.UserIDFromContext(ctx), id)
			if err != nil {
				handleError(ctx, w, err)
				return
			}

			ctx = context.WithValue(ctx, ctxProjectKey{}, project)
			ctx = logging.With(ctx, logging.From(ctx).With("project_id", project.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func projectFromContext(ctx context.Context) *model.Project {
	p, _ := ctx.Value(ctxProjectKey{}).(*model.Project)
	return p
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusOf(err))
}
