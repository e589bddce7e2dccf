package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-editor/api/swagger"
	"github.com/noah-isme/timetable-editor/internal/bootstrap"
	"github.com/noah-isme/timetable-editor/internal/handler"
	"github.com/noah-isme/timetable-editor/internal/middleware"
	"github.com/noah-isme/timetable-editor/internal/service"
	"github.com/noah-isme/timetable-editor/pkg/config"
	"github.com/noah-isme/timetable-editor/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-editor/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-editor/pkg/middleware/requestid"
)

// @title Timetable Editor API
// @version 1.0.0
// @description Weekly course timetable editor
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := bootstrap.OpenBackend(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to open storage backend", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logr.Warn("failed to close storage backend", zap.Error(err))
		}
	}()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	svc, err := bootstrap.NewServices(ctx, cfg, backend.Repo, logr, metricsSvc)
	if err != nil {
		logr.Fatal("failed to build services", zap.Error(err))
	}
	defer svc.Notices.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, backend.Checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Templates: handler.NewTemplateHandler(svc.Store),
		Courses:   handler.NewCourseHandler(svc.Store),
		Grid:      handler.NewGridHandler(svc.Presenter),
		Notices:   handler.NewNoticeHandler(svc.Notices),
		Export:    handler.NewExportHandler(svc.Exports),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", backend.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
