package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lms-dashboard-api/api/swagger"
	"github.com/noah-isme/lms-dashboard-api/internal/handler"
	"github.com/noah-isme/lms-dashboard-api/internal/middleware"
	"github.com/noah-isme/lms-dashboard-api/internal/repository"
	"github.com/noah-isme/lms-dashboard-api/internal/service"
	"github.com/noah-isme/lms-dashboard-api/pkg/cache"
	"github.com/noah-isme/lms-dashboard-api/pkg/config"
	"github.com/noah-isme/lms-dashboard-api/pkg/database"
	"github.com/noah-isme/lms-dashboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lms-dashboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lms-dashboard-api/pkg/middleware/requestid"
)

// @title LMS Dashboard API
// @version 0.1.0
// @description Course status and pricing decisions for the learner dashboard
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	programRepo := repository.NewProgramRepository(db)
	aidRepo := repository.NewFinancialAidRepository(db)
	couponRepo := repository.NewCouponRepository(db)

	authSvc := service.NewAuthService(cfg.JWT.Secret, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Programs: programRepo,
		Aid:      aidRepo,
		Coupons:  couponRepo,
		Cache:    cacheSvc,
		Metrics:  metricsSvc,
		Logger:   logr,
		Config:   service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})
	couponSvc := service.NewCouponService(couponRepo, cacheSvc, validate, logr, cfg.Coupons.MaxAttached)
	exportSvc := service.NewExportService(dashboardSvc, nil, nil, logr, cfg.Exports.Enabled)

	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	couponHandler := handler.NewCouponHandler(couponSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	api.Use(middleware.WithResponseMeta())
	{
		api.GET("/dashboard", dashboardHandler.Overview)
		api.GET("/dashboard/export", exportHandler.Download)
		api.GET("/courses/:courseId/price", dashboardHandler.CoursePrice)
		api.GET("/coupons", couponHandler.List)
		api.POST("/coupons/attach", couponHandler.Attach)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
