package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerhub/transfer-service/internal/archive/postgres"
	"github.com/ledgerhub/transfer-service/internal/config"
	"github.com/ledgerhub/transfer-service/internal/events/kafka"
	"github.com/ledgerhub/transfer-service/internal/interfaces"
	"github.com/ledgerhub/transfer-service/internal/ledger"
	"github.com/ledgerhub/transfer-service/internal/server"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	var sinks []interfaces.TransferSink

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, publisher)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).
			Msg("kafka transfer sink enabled")
	}

	if cfg.ArchiveDSN != "" {
		arch, err := postgres.Open(cfg.ArchiveDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("open transfer archive")
		}
		sinks = append(sinks, arch)
		logger.Info().Msg("postgres transfer archive enabled")
	}

	engine := ledger.NewEngine(ledger.Config{
		SubmitTimeout: cfg.SubmitTimeout,
		QueueDepth:    cfg.QueueDepth,
	}, logger, sinks...)

	handlers := server.NewHandlers(engine, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.NewRouter(handlers, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}

	engine.Close()
	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			logger.Warn().Err(err).Msg("sink close")
		}
	}
}
