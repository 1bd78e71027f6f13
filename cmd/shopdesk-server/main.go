package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopdesk/shopdesk/config"
	"github.com/shopdesk/shopdesk/internal/database"
	"github.com/shopdesk/shopdesk/pkg/logging"
	"github.com/shopdesk/shopdesk/pkg/shutdown"

	catalogapp "github.com/shopdesk/shopdesk/internal/catalog/application"
	cataloghttp "github.com/shopdesk/shopdesk/internal/catalog/infrastructure/http"
	catalogpg "github.com/shopdesk/shopdesk/internal/catalog/infrastructure/postgres"
	orderapp "github.com/shopdesk/shopdesk/internal/order/application"
	orderhttp "github.com/shopdesk/shopdesk/internal/order/infrastructure/http"
	orderpg "github.com/shopdesk/shopdesk/internal/order/infrastructure/postgres"
	sessionhttp "github.com/shopdesk/shopdesk/internal/session/infrastructure/http"
)

func main() {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load(env("CONFIG_PATH", "."))
	if err != nil {
		logging.New(logging.ParseLevel("info")).Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(logging.ParseLevel(cfg.LogLevel))

	isolation, err := database.ParseLevel(cfg.IsolationLevel)
	if err != nil {
		log.Error("bad default isolation level", "err", err)
		os.Exit(1)
	}
	settings := database.Settings{
		DSN:            cfg.DSN(),
		Retries:        cfg.ConnectionRetries,
		ConnectTimeout: cfg.ConnectionTimeout,
		Isolation:      isolation,
	}

	// Primary session for the repositories, second session for the
	// demonstration's concurrent writer.
	primary, err := database.Connect(ctx, log, settings)
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = primary.Close(context.Background()) }()

	writer, err := database.Connect(ctx, log, settings)
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = writer.Close(context.Background()) }()

	if err := database.EnsureSchema(ctx, primary); err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	categoryRepo := catalogpg.NewCategoryRepository(log, primary)
	productRepo := catalogpg.NewProductRepository(log, primary)
	catalogSvc := catalogapp.NewService(log, categoryRepo, productRepo)
	catalogHandler := cataloghttp.NewHandler(log, catalogSvc)

	orderRepo := orderpg.NewRepository(log, primary)
	orderSvc := orderapp.NewService(log, orderRepo, orderRepo)
	orderHandler := orderhttp.NewHandler(log, orderSvc)

	sessionHandler := sessionhttp.NewHandler(log, primary, writer)

	r := chi.NewRouter()
	catalogHandler.Register(r)
	orderHandler.Register(r)
	sessionHandler.Register(r)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("shopdesk-server shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
