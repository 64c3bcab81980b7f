package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/plon/illinispots-sub000/api/swagger"
	"github.com/plon/illinispots-sub000/internal/handler"
	"github.com/plon/illinispots-sub000/internal/middleware"
	"github.com/plon/illinispots-sub000/internal/repository"
	"github.com/plon/illinispots-sub000/internal/service"
	"github.com/plon/illinispots-sub000/pkg/cache"
	"github.com/plon/illinispots-sub000/pkg/config"
	"github.com/plon/illinispots-sub000/pkg/database"
	"github.com/plon/illinispots-sub000/pkg/jobs"
	"github.com/plon/illinispots-sub000/pkg/logger"
	corsmiddleware "github.com/plon/illinispots-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/plon/illinispots-sub000/pkg/middleware/requestid"
)

// @title IlliniSpots API
// @version 0.1.0
// @description Campus room availability for academic buildings and library study rooms
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	loc, err := time.LoadLocation(cfg.Availability.Timezone)
	if err != nil {
		logr.Sugar().Warnw("invalid timezone, falling back to UTC", "timezone", cfg.Availability.Timezone, "error", err)
		loc = time.UTC
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without snapshot cache", "error", err)
		redisClient = nil
	}

	classRepo := repository.NewClassScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	libcalRepo := repository.NewLibCalRepository(cfg.LibCal, nil, logr)

	hoursSvc := service.NewHoursService(service.DefaultLibraryHours(), loc)
	libcalSvc := service.NewLibCalService(libcalRepo, service.DefaultLibraries(), cfg.LibCal.Origin, loc, logr)
	availabilitySvc := service.NewAvailabilityService(
		classRepo, libcalSvc, hoursSvc, cacheRepo,
		service.DefaultLibraryCoordinates(), cfg.Availability, loc, logr,
	)
	scheduleSvc := service.NewScheduleService(classRepo, cfg.Exports.Enabled, loc, logr)
	metricsSvc := service.NewMetricsService()

	facilityHandler := handler.NewFacilityHandler(availabilitySvc, metricsSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)

	checks := map[string]handler.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return db.PingContext(ctx) },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	api := r.Group(cfg.APIPrefix)
	api.GET("/facilities", facilityHandler.List)
	api.GET("/room-schedule", scheduleHandler.Get)
	api.GET("/room-schedule/export", scheduleHandler.Export)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Availability.RefreshEnabled {
		startRefreshWorker(context.Background(), cfg, availabilitySvc, logr)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// startRefreshWorker keeps the snapshot cache warm: on every tick it drops
// the cached snapshots and rebuilds the full variant so interactive requests
// mostly hit cache.
func startRefreshWorker(ctx context.Context, cfg *config.Config, availabilitySvc *service.AvailabilityService, logr *zap.Logger) {
	queue := jobs.NewQueue("availability-refresh", func(ctx context.Context, job jobs.Job) error {
		if err := availabilitySvc.InvalidateSnapshots(ctx); err != nil {
			return err
		}
		_, _, err := availabilitySvc.Snapshot(ctx, service.FacilityQuery{IncludeAcademic: true, IncludeLibraries: true})
		return err
	}, jobs.QueueConfig{Workers: 1, Logger: logr})
	queue.Start(ctx)

	go func() {
		ticker := time.NewTicker(cfg.Availability.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				job := jobs.Job{ID: uuid.NewString(), Type: "refresh-snapshot"}
				if err := queue.Enqueue(job); err != nil {
					logr.Sugar().Warnw("failed to enqueue refresh", "error", err)
				}
			}
		}
	}()
}
