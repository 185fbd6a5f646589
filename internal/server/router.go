package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/constante/apiserver/internal/auth"
	"github.com/constante/apiserver/internal/handlers"
	"github.com/constante/apiserver/internal/logging"
	"github.com/constante/apiserver/internal/metrics"
	"github.com/constante/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 60 * time.Second

// Dependencies are the collaborators the router dispatches to. Exports and
// Metrics are optional; their routes are only mounted when set.
type Dependencies struct {
	Logger        *slog.Logger
	Authenticator *auth.Authenticator
	Users         *services.UserService
	Habits        *services.HabitService
	Records       *services.RecordService
	Exports       *services.ExportService
	Metrics       *metrics.Metrics
}

// NewRouter builds the HTTP API.
func NewRouter(deps Dependencies) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	requireAuth := deps.Authenticator.RequireAuth

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(logger),
		middleware.Recoverer,
	)
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware)
	}
	router.Use(
		middleware.Timeout(requestTimeout),
		deps.Authenticator.Authenticate,
	)

	router.Get("/healthz", handlers.Healthz)
	if deps.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, deps.Users, logger)
	})
	router.Route("/user", func(r chi.Router) {
		handlers.UserRouter(r, deps.Users, requireAuth, logger)
	})
	router.Route("/habits", func(r chi.Router) {
		handlers.HabitRouter(r, deps.Habits, requireAuth, logger)
	})
	router.Route("/records", func(r chi.Router) {
		handlers.RecordRouter(r, deps.Records, requireAuth, logger)
	})
	if deps.Exports != nil {
		router.Route("/exports", func(r chi.Router) {
			handlers.ExportRouter(r, deps.Exports, requireAuth, logger)
		})
	}

	return router
}
