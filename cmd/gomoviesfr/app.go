package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/amaumene/gomoviesfr/internal/cache"
	"github.com/amaumene/gomoviesfr/internal/config"
	"github.com/amaumene/gomoviesfr/internal/constants"
	"github.com/amaumene/gomoviesfr/internal/database"
	"github.com/amaumene/gomoviesfr/internal/gateway"
	"github.com/amaumene/gomoviesfr/internal/handlers"
	"github.com/amaumene/gomoviesfr/internal/services"
	"github.com/amaumene/gomoviesfr/internal/store"
	"github.com/amaumene/gomoviesfr/internal/upstream"
	"github.com/amaumene/gomoviesfr/pkg/httputil"
	"github.com/amaumene/gomoviesfr/pkg/ratelimiter"
)

var (
	cfg              *config.Config
	appLogger        zerolog.Logger
	memoryCache      *cache.LRUCache
	cacheDB          *database.BoltDB
	pgStore          *store.PostgresStore
	serviceContainer *services.Container
	handler          *handlers.Handler
)

func initializeConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
}

func initializeLogger() {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	if err != nil {
		appLogger.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, defaulting to info")
	}
}

func initializeStores(ctx context.Context) {
	var err error

	cacheDB, err = database.NewBolt(cfg.CacheDBPath)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to open cache database")
	}
	appLogger.Info().Str("path", cfg.CacheDBPath).Msg("cache database opened")

	pgStore, err = store.NewPostgres(ctx, cfg.DatabaseURL, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to database")
	}
	appLogger.Info().Msg("relational store connected")
}

func initializeServices() {
	memoryCache = cache.New(cfg.CacheSize, cfg.CacheTTL)

	client := upstream.New(
		cfg.TMDBAPIKey,
		constants.TMDBAPIBaseURL,
		httputil.NewHTTPClient(constants.UpstreamTimeout),
		ratelimiter.NewTokenBucket(constants.TMDBRateBurst, constants.TMDBRateLimit),
		appLogger,
	)
	gw := gateway.New(client, memoryCache, cacheDB, cfg.CacheTTL, appLogger)

	serviceContainer = &services.Container{
		Movies: services.NewMovieService(gw, pgStore, appLogger),
		Store:  pgStore,
		Logger: appLogger,
	}
	handler = handlers.New(serviceContainer)

	appLogger.Info().Msg("services initialized")
}
