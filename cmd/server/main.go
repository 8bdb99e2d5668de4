package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Quick-Genius/Apna-Lawyer/internal/bootstrap"
	"github.com/Quick-Genius/Apna-Lawyer/internal/config"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
	httptransport "github.com/Quick-Genius/Apna-Lawyer/internal/transport/http"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	logCloser, err := logger.Init(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		MaxAge: time.Duration(cfg.Logging.MaxAgeDays) * 24 * time.Hour,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init logger failed")
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("close resources failed")
		}
	}()

	router := httptransport.NewRouter(app)
	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.App.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return
		}
	case <-ctx.Done():
	}
	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	// analysis requests can hold a connection for the whole llm timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info().Msg("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
