package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/boardsight/pkg/usecase"
	"github.com/secmon-lab/boardsight/pkg/utils/logging"
)

type Server struct {
	router     *chi.Mux
	uc         *usecase.UseCases
	userHeader string
}

type Options func(*Server)

// WithUserHeader changes the header carrying the pre-authenticated user id
func WithUserHeader(name string) Options {
	return func(s *Server) {
		s.userHeader = name
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		uc:         uc,
		userHeader: DefaultUserHeader,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", healthHandler())

	r.Route("/api/projects", func(r chi.Router) {
		r.Use(userMiddleware(s.userHeader))

		r.Get("/", listProjectsHandler(uc))
		r.Post("/", createProjectHandler(uc))

		r.Route("/{projectID}", func(r chi.Router) {
			r.Use(projectMiddleware(uc))

			r.Post("/sync", syncProjectHandler(uc))
			r.Get("/sync-logs", listSyncLogsHandler(uc))
			r.Get("/items", listItemsHandler(uc))

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/progress", analyticsHandler(uc.Analytics.Progress))
				r.Get("/status-distribution", analyticsHandler(uc.Analytics.StatusDistribution))
				r.Get("/velocity", analyticsHandler(uc.Analytics.Velocity))
				r.Get("/burndown", analyticsHandler(uc.Analytics.Burndown))
				r.Get("/workload", analyticsHandler(uc.Analytics.Workload))
				r.Get("/enhanced-workload", analyticsHandler(uc.Analytics.EnhancedWorkload))
				r.Get("/milestones", analyticsHandler(uc.Analytics.Milestones))
				r.Get("/risk-analysis", analyticsHandler(uc.Analytics.RiskAnalysis))
				r.Get("/overview", analyticsHandler(uc.Analytics.Overview))
				r.Get("/filtered", filteredAnalyticsHandler(uc))
			})
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
