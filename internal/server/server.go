package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gamestore-web/apiserver/config"
	"github.com/gamestore-web/apiserver/internal/db"
	"github.com/gamestore-web/apiserver/internal/handlers"
	"github.com/gamestore-web/apiserver/internal/identity"
	"github.com/gamestore-web/apiserver/internal/logging"
	"github.com/gamestore-web/apiserver/internal/metrics"
	"github.com/gamestore-web/apiserver/internal/mq"
	"github.com/gamestore-web/apiserver/internal/services"
	"github.com/gamestore-web/apiserver/internal/storage"
	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/internal/store/postgres"
	"github.com/gamestore-web/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *mq.MQ
	logger     *slog.Logger
}

// Deps are the collaborators the router is built from.
type Deps struct {
	Store   store.Store
	Objects services.MediaStorage
	Events  services.EventPublisher
	Tokens  *identity.TokenIssuer
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// New connects the database, object storage and message queue named by
// cfg and builds the server.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := identity.NewTokenIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenExpiry)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	objects, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	events, err := mq.Open(ctx, cfg, logger)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	router := NewRouter(Deps{
		Store:   postgres.New(dbConn),
		Objects: objects,
		Events:  events,
		Tokens:  tokens,
		Metrics: metrics.New(),
		Logger:  logger,
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     events,
		logger:     logger,
	}, nil
}

// NewRouter mounts every route on a fresh router.
func NewRouter(deps Deps) *chi.Mux {
	logger := deps.Logger

	users := services.NewUserService(deps.Store, identity.NewHasher(), deps.Tokens, deps.Events, logger)
	roles := services.NewRoleService(deps.Store)
	genres := services.NewGenreService(deps.Store)
	games := services.NewGameService(deps.Store, deps.Objects, logger)
	copies := services.NewCopyService(deps.Store, deps.Events, logger)
	media := services.NewMediaService(deps.Store, deps.Objects, deps.Events, logger)

	authenticated := handlers.RequireAuth(deps.Tokens)
	admin := handlers.RequireRole(types.RoleAdministrator)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logging.Middleware(logger),
		deps.Metrics.Middleware,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", deps.Metrics.Handler())
	router.Route("/user", func(r chi.Router) {
		handlers.UserRouter(r, users, logger, authenticated, admin)
	})
	router.Route("/userrole", func(r chi.Router) {
		handlers.NamedRouter[types.Role](r, roles, "role", logger, authenticated, admin)
	})
	router.Route("/gamegenre", func(r chi.Router) {
		handlers.NamedRouter[types.Genre](r, genres, "genre", logger, authenticated, admin)
	})
	router.Route("/game", func(r chi.Router) {
		handlers.GameRouter(r, games, logger, authenticated, admin)
	})
	router.Route("/gameusercopy", func(r chi.Router) {
		handlers.CopyRouter(r, copies, logger, authenticated)
	})
	router.Route("/gamefiledescription", func(r chi.Router) {
		handlers.MediaRouter(r, media, logger, authenticated, admin)
	})
	router.Route("/xmlprocessor", func(r chi.Router) {
		handlers.XMLRouter(r, logger)
	})
	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops accepting requests and releases the database and broker.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.events != nil {
		err = errors.Join(err, s.events.Close())
	}
	if s.db != nil {
		err = errors.Join(err, s.db.Close())
	}
	s.logger.Info("server stopped")
	return err
}
