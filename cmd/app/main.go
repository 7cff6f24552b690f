package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dentkazan/clinicdirectory/internal/adapters/cache"
	"github.com/dentkazan/clinicdirectory/internal/app"
	"github.com/dentkazan/clinicdirectory/internal/application/services"
	"github.com/dentkazan/clinicdirectory/internal/domain/providers"
	"github.com/dentkazan/clinicdirectory/internal/infrastructure/clients/directoryapi"
	"github.com/dentkazan/clinicdirectory/internal/infrastructure/clients/redis"
	"github.com/dentkazan/clinicdirectory/internal/infrastructure/observability"
	"github.com/dentkazan/clinicdirectory/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger("clinicdirectory", cfg.Environment)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the main context on SIGINT/SIGTERM so in-flight requests stop.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	// Initialize the record cache: Redis when configured, otherwise a local
	// in-process fallback. The application works without Redis.
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Redis client, using in-memory cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			logger.Info().Msg("Redis cache initialized successfully")
		}
	}
	if cacheProvider == nil {
		cacheProvider = cache.NewMemoryAdapter()
	}

	// Initialize the backend API client
	apiClient := directoryapi.NewClient(directoryapi.Endpoints{
		Auth:    cfg.API.AuthURL,
		Clinics: cfg.API.ClinicsURL,
		Reviews: cfg.API.ReviewsURL,
		Admin:   cfg.API.AdminURL,
	}, time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	// Initialize services
	sessionService := services.NewSessionService(apiClient, cfg.Session.StateDir)
	directoryService := services.NewDirectoryService(
		apiClient,
		cacheProvider,
		cfg.Cache.ListingTTLSeconds,
		cfg.Cache.DetailTTLSeconds,
	)
	reviewService := services.NewReviewService(apiClient, sessionService, directoryService)
	adminService := services.NewAdminService(apiClient, sessionService, directoryService)

	// Restore the persisted session before the first render
	if session := sessionService.RestoreAndVerify(ctx); session != nil {
		logger.Info().Str("email", session.User.Email).Msg("session restored")
	}

	router := app.New(directoryService, sessionService)

	repl := newREPL(router, sessionService, directoryService, reviewService, adminService)
	if err := repl.run(ctx); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("terminal loop failed")
		os.Exit(1)
	}
}
