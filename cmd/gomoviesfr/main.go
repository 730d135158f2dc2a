package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gomoviesfr/internal/middleware"
)

func main() {
	initializeConfig()
	initializeLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initializeStores(ctx)
	defer cacheDB.Close()
	defer pgStore.Close()

	initializeServices()

	// Sweep expired memory cache entries in the background
	memoryCache.StartCleanup(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(appLogger))
	r.Use(middleware.Gzip())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit())

	handler.RegisterRoutes(r)

	appLogger.Info().Str("port", cfg.Port).Msg("starting HTTP server")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		appLogger.Fatal().Err(err).Msg("server stopped")
	}
}
