package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edusched/timetable-api/api/swagger"
	"github.com/edusched/timetable-api/internal/handler"
	"github.com/edusched/timetable-api/internal/middleware"
	"github.com/edusched/timetable-api/internal/repository"
	"github.com/edusched/timetable-api/internal/service"
	"github.com/edusched/timetable-api/pkg/cache"
	"github.com/edusched/timetable-api/pkg/config"
	"github.com/edusched/timetable-api/pkg/database"
	"github.com/edusched/timetable-api/pkg/logger"
	corsmiddleware "github.com/edusched/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edusched/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 0.1.0
// @description Weekly timetable generation service for schools
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The service degrades gracefully without Redis: reports and
		// exports are just not cached.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	disciplineRepo := repository.NewDisciplineRepository(db)
	classGroupRepo := repository.NewClassGroupRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	timetableSvc := service.NewTimetableService(
		classGroupRepo,
		teacherRepo,
		roomRepo,
		disciplineRepo,
		availabilityRepo,
		sessionRepo,
		db,
		cacheRepo,
		metricsSvc,
		nil,
		logr,
		service.TimetableConfig{
			MaxAttempts:     cfg.Scheduler.MaxAttempts,
			MaxConflictsOut: cfg.Scheduler.MaxConflictsOut,
			ReportCacheTTL:  cfg.Scheduler.ReportCacheTTL,
		},
	)
	sessionSvc := service.NewSessionService(sessionRepo, logr)
	directorySvc := service.NewDirectoryService(teacherRepo, roomRepo, disciplineRepo, logr)
	exportSvc := service.NewExportService(
		classGroupRepo,
		sessionRepo,
		nil,
		nil,
		cacheRepo,
		logr,
		service.ExportConfig{Enabled: cfg.Exports.Enabled, Title: cfg.Exports.Title},
	)

	timetableHandler := handler.NewTimetableHandler(timetableSvc, exportSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/timetable/generate", timetableHandler.Generate)
		api.GET("/timetable/report", timetableHandler.Report)
		api.GET("/sessions", sessionHandler.List)
		api.GET("/teachers", directoryHandler.ListTeachers)
		api.GET("/rooms", directoryHandler.ListRooms)
		api.GET("/disciplines", directoryHandler.ListDisciplines)
		api.GET("/class-groups/:id/timetable/export", timetableHandler.Export)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
