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

	"github.com/fullstacktime/projectman/internal/api"
	"github.com/fullstacktime/projectman/internal/core/ports"
	"github.com/fullstacktime/projectman/internal/core/store"
	"github.com/fullstacktime/projectman/internal/infrastructure/config"
	"github.com/fullstacktime/projectman/internal/infrastructure/rest"
	"github.com/fullstacktime/projectman/internal/infrastructure/storage"
	"github.com/fullstacktime/projectman/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := buildCredentialStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialising credential storage failed")
	}

	client := rest.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, creds.AccessToken, log)

	session := store.NewSessionStore(rest.NewAuthGateway(client), creds, log)
	projects := store.NewProjectStore(rest.NewProjectGateway(client), log)

	store.NewRefresher(session, creds, cfg.Refresh.Interval, cfg.Refresh.Leeway, log).Start(ctx)

	e := api.NewRouter(session, projects, cfg.Backend.BaseURL, log)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("backend", cfg.Backend.BaseURL).
		Str("storage", cfg.Storage.Backend).
		Msg("starting project gateway")

	if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func buildCredentialStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.CredentialStore, error) {
	switch cfg.Storage.Backend {
	case "redis":
		client, err := storage.Connect(ctx, storage.RedisConfig{
			Addr: cfg.Storage.Redis.Addr,
			DB:   cfg.Storage.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(client, cfg.Storage.Redis.Prefix, log), nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewFileStore(cfg.Storage.File, log), nil
	}
}
