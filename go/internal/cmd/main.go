package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// configure zerolog console output and level
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path, explicit := os.LookupEnv("CONFIG_PATH")
	if !explicit {
		path = defaultConfigPath
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// signal‐aware context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uow, closeStore, err := setupStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("setup store")
	}
	defer closeStore()

	services, err := setupServices(ctx, cfg, uow)
	if err != nil {
		log.Fatal().Err(err).Msg("setup services")
	}
	defer services.Close()

	go services.Gateway.Start(ctx)
	if err := services.Worker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start outbox worker")
	}
	if services.Listener != nil {
		go func() {
			if err := services.Listener.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("outbox listener exited")
			}
		}()
	}

	server := setupServer(cfg, services)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("storage", cfg.Storage.Driver).Msg("starting server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server exited unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := services.Worker.Stop(); err != nil {
		log.Error().Err(err).Msg("stop outbox worker")
	}
	log.Info().Msg("graceful shutdown complete")
}
