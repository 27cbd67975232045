package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/lamnguyen-dev/educenter-api/api/swagger"
	"github.com/lamnguyen-dev/educenter-api/internal/handler"
	"github.com/lamnguyen-dev/educenter-api/internal/middleware"
	"github.com/lamnguyen-dev/educenter-api/internal/models"
	"github.com/lamnguyen-dev/educenter-api/internal/repository"
	"github.com/lamnguyen-dev/educenter-api/internal/service"
	"github.com/lamnguyen-dev/educenter-api/internal/session"
	"github.com/lamnguyen-dev/educenter-api/internal/validation"
	"github.com/lamnguyen-dev/educenter-api/pkg/cache"
	"github.com/lamnguyen-dev/educenter-api/pkg/config"
	"github.com/lamnguyen-dev/educenter-api/pkg/database"
	"github.com/lamnguyen-dev/educenter-api/pkg/logger"
	corsmiddleware "github.com/lamnguyen-dev/educenter-api/pkg/middleware/cors"
	reqidmiddleware "github.com/lamnguyen-dev/educenter-api/pkg/middleware/requestid"
)

// @title EduCenter Admin API
// @version 0.1.0
// @description Administrative API for a course provider: consultations, students and class enrollment
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var sessions session.Store = session.NewMemoryStore()
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, using in-memory sessions", "error", err)
	} else {
		defer redisClient.Close() //nolint:errcheck
		sessions = session.NewRedisStore(redisClient, cfg.Session.KeyPrefix, "admin-panel", cfg.Session.TTL)
	}

	validate := validator.New()
	if err := validation.RegisterVNPhone(validate); err != nil {
		logr.Sugar().Fatalw("failed to register validators", "error", err)
	}

	consultationRepo := repository.NewConsultationRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	userRepo := repository.NewUserRepository(db)

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	consultationSvc := service.NewConsultationService(consultationRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(classRepo, studentRepo, consultationRepo, validate, logr)
	exportSvc := service.NewExportService(consultationRepo, cfg.Consultations.ExportMaxRows, logr)
	authSvc := service.NewAuthService(userRepo, sessions, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	consultationHandler := handler.NewConsultationHandler(consultationSvc, exportSvc, metricsSvc, cfg.Consultations.DefaultPageSize, cfg.Consultations.MaxPageSize)
	publicHandler := handler.NewPublicHandler(consultationSvc, metricsSvc, cfg.Consultations.PublicFormEnabled)
	studentHandler := handler.NewStudentHandler(studentSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

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
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/public/consultations", publicHandler.CreateConsultation)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/consultations", consultationHandler.List)
		protected.POST("/consultations", consultationHandler.Create)
		protected.GET("/consultations/export", consultationHandler.Export)
		protected.GET("/consultations/:id", consultationHandler.Get)
		protected.PUT("/consultations/:id", consultationHandler.Update)
		protected.PATCH("/consultations/:id/status", consultationHandler.Transition)

		protected.GET("/students", studentHandler.List)
		protected.GET("/students/:id", studentHandler.Get)
		protected.POST("/students", studentHandler.Create)

		protected.GET("/classes/:id/candidates", enrollmentHandler.Candidates)
		protected.GET("/classes/:id/members", enrollmentHandler.Members)

		admin := protected.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.DELETE("/consultations/:id", consultationHandler.Delete)
			admin.POST("/classes/:id/enroll", enrollmentHandler.Enroll)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
