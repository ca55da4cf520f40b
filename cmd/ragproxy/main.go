package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/newsrag/ragproxy/internal/backend"
	"github.com/newsrag/ragproxy/internal/chat"
	"github.com/newsrag/ragproxy/internal/config"
	"github.com/newsrag/ragproxy/internal/history"
	"github.com/newsrag/ragproxy/internal/httpapi"
	"github.com/newsrag/ragproxy/internal/observability"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config error")
	}

	logger := newLogger(cfg.LogLevel)
	for _, w := range cfg.Warnings() {
		logger.Warn().Msg(w)
	}

	store, err := history.NewStore(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("history store init failed")
	}
	defer store.Close()

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	client := backend.NewClient(cfg.MLServiceURL, cfg.MLServiceAPIKey, cfg.MLServiceTimeout)
	orchestrator := chat.NewOrchestrator(store, client, cfg.ChatHistoryTTL, metrics, logger)

	api := httpapi.New(cfg, orchestrator, store, metrics, logger)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr(),
		Handler: api.Router(),
	}

	go func() {
		logger.Info().Str("addr", cfg.BindAddr()).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		_ = httpServer.Close()
	}

	logger.Info().Msg("shutdown complete")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
