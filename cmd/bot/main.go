package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	chi "github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"doctor-post-bot/internal/adapters/bot"
	"doctor-post-bot/internal/app"
	"doctor-post-bot/internal/infra/config"
	applog "doctor-post-bot/internal/infra/log"
	"doctor-post-bot/internal/infra/metrics"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.Token == "" {
		logger.Fatal().Msg("bot: TG_BOT_TOKEN is not set")
	}
	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("bot: invalid configuration")
	}
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("bot: failed to create bot")
	}

	h := bot.NewHandler(botAPI, a.Service, logger.With().Str("component", "bot").Logger(), bot.Options{
		Provider:    a.Defaults.Provider,
		Template:    a.Defaults.Template,
		Constraints: a.Defaults.Constraints,
	})

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)
	}

	d := bot.NewDispatcher(h, cfg.Telegram.MaxConcurrent)
	if cfg.Telegram.WebhookListen != "" {
		serveWebhook(ctx, logger, cfg.Telegram.WebhookListen, d)
	} else {
		poll(ctx, logger, botAPI, cfg.Telegram.PollTimeout, d)
	}
	d.Wait()
	logger.Info().Msg("bot: stopped")
}

// poll dispatches updates until ctx is cancelled.
func poll(ctx context.Context, logger zerolog.Logger, botAPI *tgbotapi.BotAPI, timeout int, d *bot.Dispatcher) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	updates := botAPI.GetUpdatesChan(u)
	logger.Info().Str("bot", botAPI.Self.UserName).Msg("bot: long polling started")
	for {
		select {
		case <-ctx.Done():
			botAPI.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			d.Dispatch(ctx, upd)
		}
	}
}

// serveWebhook acknowledges each update at once and leaves the work to the dispatcher.
func serveWebhook(ctx context.Context, logger zerolog.Logger, addr string, d *bot.Dispatcher) {
	r := chi.NewRouter()
	r.Post("/bot/webhook", func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !d.Dispatch(ctx, update) {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: r, ReadTimeout: 15 * time.Second}
	go func() {
		logger.Info().Str("addr", addr).Msg("bot: webhook server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("bot: webhook server stopped")
		}
	}()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
