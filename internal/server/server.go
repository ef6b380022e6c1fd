package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"orgmanager/internal/config"
	"orgmanager/internal/handler"
	"orgmanager/internal/middleware"
	"orgmanager/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	router   *gin.Engine
	store    *Store
	services *Services
}

// New opens the configured store and builds the server around it.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	srv, err := NewWithRepositories(cfg, log, store.Repositories)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	srv.store = store
	return srv, nil
}

// NewWithRepositories builds a server over already opened repositories.
func NewWithRepositories(cfg *config.Config, log *zap.Logger, repos *Repositories) (*Server, error) {
	services, err := InitServices(cfg, repos, log)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:      cfg,
		log:      log,
		router:   setupRouter(cfg, log, InitHandlers(services), services),
		services: services,
	}, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store.
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.cfg.Server.Address(),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening",
			zap.String("addr", httpServer.Addr),
			zap.String("version", version.Get().String()))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	s.log.Info("shutting down", zap.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func setupRouter(cfg *config.Config, log *zap.Logger, h *Handlers, s *Services) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log.Named("http")))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	admin := r.Group("/admin")
	{
		admin.POST("/login", h.Admin.Login)
	}

	org := r.Group("/org")
	{
		org.POST("/create", h.Org.Create)
		org.GET("/get", h.Org.Get)
		org.PUT("/update", h.Org.Update)
		org.DELETE("/delete", middleware.RequireBearer(s.Auth), h.Org.Delete)
	}

	return r
}
