package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/filecoffee/signaling/internal/v1/api"
	"github.com/filecoffee/signaling/internal/v1/auth"
	"github.com/filecoffee/signaling/internal/v1/config"
	"github.com/filecoffee/signaling/internal/v1/ice"
	"github.com/filecoffee/signaling/internal/v1/logging"
	"github.com/filecoffee/signaling/internal/v1/middleware"
	"github.com/filecoffee/signaling/internal/v1/ratelimit"
	"github.com/filecoffee/signaling/internal/v1/reaper"
	"github.com/filecoffee/signaling/internal/v1/service"
	"github.com/filecoffee/signaling/internal/v1/session"
	"github.com/filecoffee/signaling/internal/v1/store"
)

func main() {
	if err := run(); err != nil {
		logging.Error(context.Background(), "server exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run() error {
	// Load .env for local development; production relies on real env vars.
	if err := godotenv.Load(); err == nil {
		logging.Info(context.Background(), "loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("environment validation failed: %w", err)
	}

	if err := logging.Initialize(cfg.DevelopmentMode); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	// Wire up the core: store -> services -> session handler.
	roomStore := store.NewInMemoryRoomStore()
	roomService := service.NewRoomService(roomStore, cfg)
	signalingService := service.NewSignalingService()
	iceProvider := ice.NewProvider(cfg)

	limiter, err := ratelimit.NewLimiter(cfg)
	if err != nil {
		return fmt.Errorf("initialize rate limiter: %w", err)
	}

	sessionHandler := session.NewHandler(roomService, signalingService, limiter, cfg)
	apiHandler := api.NewHandler(roomService, iceProvider)

	// Reaper runs until shutdown cancels its context.
	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go reaper.New(roomService, reaper.DefaultInterval, cfg.RoomTTL()).Run(reaperCtx)

	if !cfg.DevelopmentMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())

	corsConfig := cors.DefaultConfig()
	allowedOrigins := auth.ParseAllowedOrigins(cfg.AllowedOrigins)
	if auth.AllowAll(allowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/ws", sessionHandler.ServeWs)

	apiGroup := router.Group("/api", limiter.APIMiddleware())
	{
		apiGroup.GET("/rooms/:id", apiHandler.GetRoom)
		apiGroup.GET("/ice-servers", apiHandler.GetIceServers)
	}

	router.GET("/health", apiHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	// Start serving; a bind failure surfaces on errCh.
	errCh := make(chan error, 1)
	go func() {
		logging.Info(context.Background(), "server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("run server: %w", err)
	case sig := <-quit:
		logging.Info(context.Background(), "shutting down", zap.String("signal", sig.String()))
	}

	// 30 seconds to flush in-flight requests and close sessions.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopReaper()

	if err := sessionHandler.Shutdown(ctx); err != nil {
		logging.Error(ctx, "error during session shutdown", zap.Error(err))
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logging.Info(ctx, "server exiting")
	return nil
}
