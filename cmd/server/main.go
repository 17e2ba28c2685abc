package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sipeka/internal/permit/handler"
	"sipeka/internal/permit/metrics"
	"sipeka/internal/permit/seed"
	"sipeka/internal/permit/service"
	"sipeka/internal/permit/store"
	"sipeka/internal/platform/config"
	"sipeka/internal/platform/httpserver"
	"sipeka/internal/platform/logger"
	platformmw "sipeka/internal/platform/middleware"
	"sipeka/pkg/platform/httputil"
	"sipeka/pkg/platform/middleware/metadata"
	"sipeka/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	permitStore := store.NewInMemory()
	permitMetrics := metrics.New()
	permitService := service.New(permitStore, permitMetrics, cfg.ReportYears)

	if cfg.Seed {
		dataset := seed.Generate(cfg.SeedValue)
		if err := permitService.Bootstrap(context.Background(), dataset); err != nil {
			log.Error("seed bootstrap failed", "error", err)
			os.Exit(1)
		}
		log.Info("seed dataset loaded", "permits", len(dataset))
	}

	permitHandler := handler.New(permitService, log, cfg.AdminToken)

	router := chi.NewRouter()
	router.Use(platformmw.RequestID)
	router.Use(platformmw.Recovery(log))
	router.Use(platformmw.Logger(log))
	router.Use(requesttime.Middleware)
	router.Use(metadata.ClientMetadata)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	permitHandler.Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting sipeka", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
