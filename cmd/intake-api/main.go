package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/fillqr/intake-api/api/swagger"
	"github.com/fillqr/intake-api/internal/captcha"
	"github.com/fillqr/intake-api/internal/handler"
	"github.com/fillqr/intake-api/internal/middleware"
	"github.com/fillqr/intake-api/internal/repository"
	"github.com/fillqr/intake-api/internal/service"
	"github.com/fillqr/intake-api/pkg/cache"
	"github.com/fillqr/intake-api/pkg/config"
	"github.com/fillqr/intake-api/pkg/database"
	"github.com/fillqr/intake-api/pkg/logger"
	"github.com/fillqr/intake-api/pkg/mailer"
	corsmiddleware "github.com/fillqr/intake-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fillqr/intake-api/pkg/middleware/requestid"
	"github.com/fillqr/intake-api/pkg/storage"
)

// @title Membership Intake API
// @version 1.0.0
// @description Multi-tenant membership application intake and triage
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
		}
	}

	photoStore, err := storage.NewPhotoStorage(cfg.Uploads.Dir, cfg.Uploads.AllowedExtensions)
	if err != nil {
		logr.Sugar().Fatalw("photo storage init failed", "error", err)
	}

	tenantRepo := repository.NewTenantRepository(db)
	appRepo := repository.NewApplicationRepository(db)

	tenantSvc := service.NewTenantService(tenantRepo, cacheSvc, cfg.Cache.TTL, logr)
	verifier := captcha.New(cfg.Captcha.Secret, cfg.Captcha.VerifyURL, cfg.Captcha.Timeout, logr)
	notify := mailer.New(cfg.Mail)
	intakeSvc := service.NewIntakeService(appRepo, tenantSvc, photoStore, verifier, notify, metrics, logr,
		cfg.Captcha.SiteKey, cfg.Intake.EntryDateLookaheadMonths)
	adminSvc := service.NewAdminService(appRepo, nil, nil, cfg.Intake.ListPageSize, logr)

	csrfSigner := middleware.NewCSRFSigner(cfg.CSRF.Secret, cfg.CSRF.TTL)

	formHandler := handler.NewFormHandler(intakeSvc, csrfSigner)
	appHandler := handler.NewApplicationHandler(intakeSvc, cfg.Uploads.MaxFileSizeBytes)
	adminHandler := handler.NewAdminHandler(adminSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Tenant(tenantSvc, logr))
	api.Use(middleware.CSRF(csrfSigner))

	api.GET("/form", formHandler.Context)
	api.POST("/applications", appHandler.Submit)

	admin := api.Group("/admin")
	admin.GET("/applications", adminHandler.List)
	admin.GET("/applications/export", adminHandler.Export)
	admin.GET("/applications/:id", adminHandler.Detail)
	admin.GET("/applications/:id/events", adminHandler.History)
	admin.PATCH("/applications/:id/status", adminHandler.UpdateStatus)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
