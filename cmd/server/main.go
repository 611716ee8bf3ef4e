package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sevensystem/internal/config"
	"sevensystem/internal/infra"
	"sevensystem/internal/router"
	"sevensystem/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatal().Msg("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = randomSecret()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	shutdownTracer, err := infra.InitTracer(context.Background(), cfg.OTelEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Error().Err(err).Msg("tracer shutdown")
		}
	}()

	opts := infra.SQLiteOptions{BusyTimeoutMS: cfg.SQLiteBusyTimeout}
	registry, err := infra.NewRegistry(cfg.RegistryPath(), opts)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.RegistryPath()).Msg("failed to open registry")
	}
	tenants := infra.NewTenantManager(cfg.DataDir, opts)
	defer tenants.Close()

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Low-stock alert workers run only when Redis is configured.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alertasCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	if rdb != nil {
		alertas := worker.NewAlertaWorker(rdb)
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, alertas.Handlers())
	} else {
		log.Info().Msg("REDIS_URL not set, low-stock alerts disabled")
	}

	r := router.New(cfg, registry, tenants, rdb, alertasCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("data_dir", cfg.DataDir).Msgf("estoque server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	cancel()
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("generate jwt secret")
	}
	return hex.EncodeToString(b)
}
