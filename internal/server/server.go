// Package server is the wiring layer: it assembles the dependency chain,
// mounts routes and middleware, and owns startup/shutdown.
//
// The composition root builds, in order: the SQLite cache, the Telegram
// client adapter, the lookup service, and the HTTP handlers. Each layer
// receives interfaces, not concrete types, so tests can swap any of them.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkka404/tginfo/internal/adapter"
	"github.com/nkka404/tginfo/internal/config"
	"github.com/nkka404/tginfo/internal/handler"
	"github.com/nkka404/tginfo/internal/metrics"
	"github.com/nkka404/tginfo/internal/middleware"
	sqliteRepo "github.com/nkka404/tginfo/internal/repository/sqlite"
	"github.com/nkka404/tginfo/internal/service"
	"github.com/nkka404/tginfo/internal/telegram"
)

// Server owns the router and the resources that must be released on
// shutdown: the cache database and the Telegram session.
type Server struct {
	router  *chi.Mux
	cfg     *config.Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	adapter *adapter.Adapter
}

// New assembles the full dependency chain.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	tgAdapter := adapter.New(func() (telegram.Client, error) {
		return telegram.NewBotClient(telegram.BotClientConfig{
			Token:     cfg.BotToken,
			APIServer: cfg.BotAPI,
		})
	}, logger)

	s := &Server{
		router:  chi.NewRouter(),
		cfg:     cfg,
		logger:  logger,
		db:      db,
		adapter: tgAdapter,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	m := metrics.New()
	lookupService := service.NewLookupService(s.adapter, s.db, m, s.logger, s.cfg.CacheTTL)
	lookupHandler := handler.NewLookupHandler(
		lookupService,
		s.adapter,
		handler.Assembler{
			Owner:       s.cfg.APIOwner,
			Updates:     s.cfg.APIUpdates,
			DefaultSize: s.cfg.DefaultPhotoSize,
		},
		s.cfg.Version,
		s.logger,
	)

	s.router.Get("/", lookupHandler.HandleRoot)
	s.router.Get("/health", lookupHandler.HandleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	// Only the lookup endpoints are rate limited; probes stay cheap.
	limiter := middleware.NewRateLimiter(s.cfg.RateLimitPerSec, s.cfg.RateLimitBurst)
	s.router.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Get("/", lookupHandler.HandleQuery)
		r.Get("/user/{input}", lookupHandler.HandleByPath)
	})
}

// purgeLoop evicts expired cache rows in the background until ctx ends.
func (s *Server) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CacheTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.db.PurgeExpired(ctx); err != nil {
				s.logger.Warn("cache purge failed", slog.String("error", err.Error()))
			} else if n > 0 {
				s.logger.Debug("purged expired cache entries", slog.Int64("count", n))
			}
		}
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully and releases the cache database and Telegram session.
func (s *Server) Start() error {
	defer s.db.Close()
	defer s.adapter.Close()

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go s.purgeLoop(purgeCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("cache", s.cfg.CachePath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
