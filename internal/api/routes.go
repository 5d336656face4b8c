package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rwreynolds/stampcollect/internal/api/handlers"
	"github.com/rwreynolds/stampcollect/internal/config"
	"github.com/rwreynolds/stampcollect/internal/logger"
	"github.com/rwreynolds/stampcollect/internal/middleware"
	"github.com/rwreynolds/stampcollect/internal/validation"
)

func SetupRouter(stampService handlers.StampService, cfg *config.Config, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// gin validates request bodies with its own engine; give it the stamp rules
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.Register(v); err != nil {
			log.Error("register validation rules", zap.Error(err))
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(logger.GinMiddleware(log))
	router.Use(middleware.Metrics())

	// CORS configuration - origins come from config, which carries the local dev defaults
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	stampHandler := handlers.NewStampHandler(stampService)

	// API routes
	api := router.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	{
		stamps := api.Group("/stamps")
		{
			stamps.GET("", stampHandler.ListStamps)
			stamps.POST("", stampHandler.CreateStamp)
			stamps.GET("/search", stampHandler.SearchStamps)
			stamps.GET("/stats", stampHandler.GetStats)
			stamps.GET("/export", stampHandler.ExportStamps)
			stamps.POST("/import", stampHandler.ImportStamps)
			stamps.GET("/:id", stampHandler.GetStamp)
			stamps.GET("/:id/value", stampHandler.GetStampValue)
			stamps.PUT("/:id", stampHandler.UpdateStamp)
			stamps.DELETE("/:id", stampHandler.DeleteStamp)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
