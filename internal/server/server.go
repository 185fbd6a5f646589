package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/constante/apiserver/config"
	"github.com/constante/apiserver/internal/auth"
	"github.com/constante/apiserver/internal/db"
	"github.com/constante/apiserver/internal/metrics"
	"github.com/constante/apiserver/internal/mq"
	"github.com/constante/apiserver/internal/services"
	"github.com/constante/apiserver/internal/storage"
	"github.com/constante/apiserver/internal/store"
	"github.com/constante/apiserver/internal/store/memory"
	"github.com/go-chi/chi/v5"
)

// Server wraps the HTTP server and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger
	db         *sql.DB
	storage    *storage.Storage
	mq         *mq.MQ
}

type repositories struct {
	users   services.UserRepository
	habits  services.HabitRepository
	records services.RecordRepository
}

// New wires configuration into a ready-to-start Server.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *Server, err error) {
	s := &Server{logger: logger}
	defer func() {
		if err != nil {
			s.closeResources()
		}
	}()

	repos, err := s.openRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := newTokenService(cfg.Auth, logger)
	if err != nil {
		return nil, err
	}

	s.storage, err = storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open object storage: %w", err)
	}
	s.mq, err = mq.Open(ctx, cfg.MQ)
	if err != nil {
		return nil, fmt.Errorf("open message queue: %w", err)
	}

	var opts []services.Option
	if s.mq != nil {
		opts = append(opts, services.WithNotifier(services.NewNotifier(s.mq, cfg.MQ.EventsChannel, logger)))
		logger.Info("publishing domain events", "backend", cfg.MQ.Backend, "channel", cfg.MQ.EventsChannel)
	}

	m := metrics.New()
	deps := Dependencies{
		Logger:        logger,
		Authenticator: auth.NewAuthenticator(tokens, repos.users, logger, auth.WithObserver(m)),
		Users:         services.NewUserService(repos.users, auth.NewBcryptHasher(), tokens),
		Habits:        services.NewHabitService(repos.users, repos.habits, opts...),
		Records:       services.NewRecordService(repos.users, repos.habits, repos.records, opts...),
		Metrics:       m,
	}
	if s.storage != nil {
		deps.Exports = services.NewExportService(repos.users, repos.habits, repos.records, s.storage, opts...)
		logger.Info("exports enabled", "backend", cfg.Storage.Backend, "bucket", s.storage.Bucket())
	}
	s.router = NewRouter(deps)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) openRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if cfg.Database.InMemory {
		s.logger.Warn("using in-memory store; data is lost on restart")
		mem := memory.New()
		return repositories{users: mem.Users(), habits: mem.Habits(), records: mem.Records()}, nil
	}

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return repositories{}, fmt.Errorf("open database: %w", err)
	}
	s.db = conn
	return repositories{
		users:   store.NewUserRepository(conn),
		habits:  store.NewHabitRepository(conn),
		records: store.NewRecordRepository(conn),
	}, nil
}

func newTokenService(cfg config.AuthConfig, logger *slog.Logger) (*auth.TokenService, error) {
	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		generated, err := auth.NewSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
		logger.Warn("JWT_SECRET not set; using a random signing key, tokens will not survive a restart")
	}

	tokens, err := auth.NewTokenService(secret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("JWT_SECRET: %w", err)
	}
	return tokens, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the database, storage
// and message queue.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	return errors.Join(err, s.closeResources())
}

func (s *Server) closeResources() error {
	var errs []error
	if s.mq != nil {
		errs = append(errs, s.mq.Close())
	}
	if s.storage != nil {
		errs = append(errs, s.storage.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
