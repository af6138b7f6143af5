package handlers

import (
	"log/slog"
	"net/http"

	"restaurant-directory/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Restaurants *RestaurantHandler
	Hashtags    *HashtagHandler
	Logger      *slog.Logger
	Metrics     *middleware.HTTPMetrics
	Gatherer    prometheus.Gatherer
	// Write routes require an admin bearer token when set.
	JWTSecret []byte
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Logger != nil {
		router.Use(middleware.RequestLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Handler())
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	var write []gin.HandlerFunc
	if len(cfg.JWTSecret) > 0 {
		write = append(write, middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole("admin"))
	}
	withWrite := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), h)
	}

	api := router.Group("/api")
	{
		hashtags := api.Group("/hashtags")
		{
			hashtags.GET("", cfg.Hashtags.GetHashtags)
			hashtags.POST("", withWrite(cfg.Hashtags.CreateHashtag)...)
			hashtags.PUT("/:id", withWrite(cfg.Hashtags.UpdateHashtag)...)
		}

		restaurants := api.Group("/restaurants")
		{
			restaurants.GET("", cfg.Restaurants.GetRestaurants)
			restaurants.POST("", withWrite(cfg.Restaurants.CreateRestaurant)...)
			restaurants.PUT("/:id", withWrite(cfg.Restaurants.UpdateRestaurant)...)
		}
	}

	return router
}
