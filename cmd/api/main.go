package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/carebook/booking-api/api/swagger"
	"github.com/carebook/booking-api/internal/handler"
	internalmiddleware "github.com/carebook/booking-api/internal/middleware"
	"github.com/carebook/booking-api/internal/repository"
	"github.com/carebook/booking-api/internal/service"
	"github.com/carebook/booking-api/pkg/cache"
	"github.com/carebook/booking-api/pkg/config"
	"github.com/carebook/booking-api/pkg/database"
	"github.com/carebook/booking-api/pkg/logger"
	corsmiddleware "github.com/carebook/booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/carebook/booking-api/pkg/middleware/requestid"
)

// @title Carebook Booking API
// @version 1.0.0
// @description Patient appointment booking and availability service
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

	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		// The calendar works without Redis; week views just stop being cached.
		logr.Warn("redis unavailable, calendar caching disabled", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()

	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, cacheRepo, validate, logr)
	bookingSvc := service.NewBookingService(bookingRepo, availabilityRepo, cacheRepo, validate, logr)
	calendarSvc := service.NewCalendarService(availabilityRepo, bookingRepo, cacheRepo, cfg.Calendar.CacheTTL, logr)

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc, metricsSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(tokenSvc))
	{
		api.GET("/availability", availabilityHandler.Get)
		api.PUT("/availability", availabilityHandler.SaveWeekly)

		api.GET("/calendar", calendarHandler.Week)
		api.POST("/calendar/next", calendarHandler.Next)
		api.POST("/calendar/previous", calendarHandler.Previous)
		api.PUT("/calendar/range", calendarHandler.SetRange)
		api.GET("/calendar/export", calendarHandler.Export)

		api.GET("/bookings", bookingHandler.List)
		api.POST("/bookings", bookingHandler.Create)
		api.PUT("/bookings/:id", bookingHandler.Update)
		api.DELETE("/bookings/:id", bookingHandler.Cancel)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
