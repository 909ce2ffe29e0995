package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cdms/clinic-system/internal/api"
	"github.com/cdms/clinic-system/internal/api/handler"
	"github.com/cdms/clinic-system/internal/core/service"
	"github.com/cdms/clinic-system/internal/infrastructure/config"
	"github.com/cdms/clinic-system/internal/infrastructure/db"
	"github.com/cdms/clinic-system/internal/infrastructure/db/redis"
	"github.com/cdms/clinic-system/pkg/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// bootstrap loads configuration and initialises the logger.
func bootstrap(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "clinic-api",
	})
	return cfg, nil
}

func runServer(ctx context.Context) error {
	cfg, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	log := logger.Get()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	log.Info().Str("driver", store.Driver).Msg("store connected")

	redisClient, err := redis.Connect(ctx, redis.Config{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
		PingTimeout: cfg.Redis.PingTimeout,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(store.Users, redis.NewTokenBlacklist(redisClient), tokens, logger.Component("auth"))

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Users:    service.NewUserService(store.Users, store.Clinics, logger.Component("users")),
		Clinics:  service.NewClinicService(store.Clinics, store.Users, logger.Component("clinics")),
		Patients: service.NewPatientService(store.Patients, store.Users, logger.Component("patients")),
		Readiness: map[string]handler.Pinger{
			store.Driver: store,
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		},
		Logger:         logger.Component("http"),
		LoginRateLimit: cfg.LoginRateLimit,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
