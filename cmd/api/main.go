package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"doctor-post-bot/internal/adapters/api"
	"doctor-post-bot/internal/app"
	"doctor-post-bot/internal/infra/config"
	httpinfra "doctor-post-bot/internal/infra/http"
	applog "doctor-post-bot/internal/infra/log"
	"doctor-post-bot/internal/infra/metrics"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: invalid configuration")
	}

	h := api.NewHandler(a.Service, a.Providers, cfg.MissingCredentials(), api.Defaults{
		Provider:    a.Defaults.Provider,
		Template:    a.Defaults.Template,
		Constraints: a.Defaults.Constraints,
	}, logger.With().Str("component", "api").Logger())

	srv := httpinfra.NewServer(logger.With().Str("component", "http").Logger(), httpinfra.Options{
		RequestTimeout: a.Service.Budget() + 5*time.Second,
	})
	h.Routes(srv.Router)

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)
	}
	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error().Err(err).Msg("api: server stopped")
			stop()
		}
	}()
	<-ctx.Done()
	logger.Info().Msg("api: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
