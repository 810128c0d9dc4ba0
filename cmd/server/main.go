package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/haulquote/internal/config"
	"github.com/Simplici0/haulquote/internal/db"
	"github.com/Simplici0/haulquote/internal/logging"
	"github.com/Simplici0/haulquote/internal/migrations"
	"github.com/Simplici0/haulquote/internal/ratestore"
	"github.com/Simplici0/haulquote/internal/ratetable"
	"github.com/Simplici0/haulquote/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger := logging.Must(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", zap.String("detail", w))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	version, err := migrations.Version(database)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info("database ready", zap.String("path", cfg.DBPath), zap.Int64("schema_version", version))

	var fileTables map[string]*ratetable.Table
	if cfg.RatesDir != "" {
		fileTables, err = ratetable.LoadDir(cfg.RatesDir)
		if err != nil {
			return fmt.Errorf("failed to load rate files: %w", err)
		}
	}

	stats, err := seed.Run(ctx, database, seed.Config{Tables: fileTables})
	if err != nil {
		return fmt.Errorf("failed to seed rate tables: %w", err)
	}
	if stats.Inserts > 0 {
		logger.Info("seeded rate tables", zap.Int("rows", stats.Inserts), zap.Strings("markets", stats.Markets))
	}

	store := ratestore.New(database)
	catalog, err := store.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rate tables: %w", err)
	}
	if _, ok := catalog.Get(cfg.DefaultMarket); !ok {
		return fmt.Errorf("default market %q has no rate table", cfg.DefaultMarket)
	}

	srv, err := newServer(store, catalog, logger, cfg.DefaultMarket)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.routes(cfg),

		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.Strings("markets", catalog.Markets()))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *server) routes(cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleCalculator)
	r.Post("/calc", s.handleCalculate)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/quote", s.handleAPIQuote)
		r.Get("/markets", s.handleAPIMarkets)
		r.Get("/markets/{market}", s.handleAPIMarket)
		r.Get("/seasons", s.handleAPISeasons)
	})

	if !cfg.AdminRoutesEnabled() {
		return r
	}
	r.Route("/admin", func(r chi.Router) {
		if cfg.AdminAuthEnabled() {
			r.Use(middleware.BasicAuth("haulquote admin", map[string]string{cfg.AdminEmail: cfg.AdminPassword}))
		}
		r.Get("/rates", s.handleAdminRatesIndex)
		r.Get("/rates/{market}", s.handleAdminRatesForm)
		r.Post("/rates/{market}", s.handleAdminRatesSubmit)
	})

	return r
}
