package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gestor-tareas/apiserver/config"
	"github.com/gestor-tareas/apiserver/internal/db"
	"github.com/gestor-tareas/apiserver/internal/handlers"
	"github.com/gestor-tareas/apiserver/internal/services"
	gormstore "github.com/gestor-tareas/apiserver/internal/store/gorm"
	"github.com/gestor-tareas/apiserver/internal/store/postgres"
	"github.com/gestor-tareas/apiserver/internal/store/supabase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	closeStore func() error
}

// New constructs a Server with basic middleware and defaults. The
// persistence backend is chosen by cfg.StoreBackend.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	userRepo, taskRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo)

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		if closeStore != nil {
			_ = closeStore()
		}
		return nil, errors.New("JWT_SECRET is required")
	}

	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Get("/", handlers.Index)
		handlers.AuthRouter(r, userService, jwtSecret, tokenTTL)
		handlers.TaskRouter(r, taskService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		closeStore: closeStore,
	}, nil
}

// openStore builds the repositories for the configured backend.
func openStore(ctx context.Context, cfg config.Config) (services.UserRepository, services.TaskRepository, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.NewUserRepository(dbConn), postgres.NewTaskRepository(dbConn), dbConn.Close, nil

	case config.BackendSQLite:
		gormDB, err := gormstore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return gormstore.NewUserRepository(gormDB), gormstore.NewTaskRepository(gormDB), closeDB, nil

	case config.BackendSupabase:
		if cfg.Supabase.URL == "" || cfg.Supabase.APIKey == "" {
			return nil, nil, nil, errors.New("SUPABASE_URL and SUPABASE_API_KEY are required")
		}
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.APIKey)
		return supabase.NewUserRepository(client), supabase.NewTaskRepository(client), nil, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.closeStore != nil {
		_ = s.closeStore()
	}
	return s.httpServer.Close()
}
