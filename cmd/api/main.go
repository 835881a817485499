package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rfm-analytics/internal/adapters/scoring"
	"rfm-analytics/internal/infra/config"
	httpinfra "rfm-analytics/internal/infra/http"
	loginfra "rfm-analytics/internal/infra/log"
	"rfm-analytics/internal/infra/metrics"
	"rfm-analytics/internal/usecase/rfm"
)

func main() {
	cfg := config.Load()
	logger := loginfra.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := rfm.NewService(scoring.NewQuartile(), logger.With().Str("component", "rfm").Logger())

	server := httpinfra.NewServer(cfg.AllowedOrigin)
	server.Router.Get("/", httpinfra.RootHandler())
	server.Router.Post("/upload/", httpinfra.UploadHandler(service, logger.With().Str("component", "upload").Logger(), cfg.MaxUploadBytes))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api: старт")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api: сервер остановлен")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
