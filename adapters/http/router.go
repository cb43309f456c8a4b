package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khoahotran/vidshare/pkg/auth"
	"github.com/khoahotran/vidshare/pkg/logger"
)

type RouterDeps struct {
	VideoHandler   *VideoHandler
	AuthHandler    *AuthHandler
	JWTService     *auth.JWTService
	Logger         logger.Logger
	RateLimitRPS   float64
	RateLimitBurst int

	// TrustProxyHeaders keys the limiter on X-Forwarded-For / X-Real-IP.
	TrustProxyHeaders bool
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(deps.Logger))
	router.Use(ErrorMiddleware(deps.Logger))

	authMiddleware := AuthMiddleware(deps.JWTService, deps.Logger)
	writeLimiter := RateLimitMiddleware(deps.RateLimitRPS, deps.RateLimitBurst, deps.TrustProxyHeaders)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		authGroup := api.Group("/auth")
		authGroup.Use(writeLimiter)
		{
			authGroup.POST("/register", deps.AuthHandler.Register)
			authGroup.POST("/login", deps.AuthHandler.Login)
		}

		videos := api.Group("/video")
		{
			videos.GET("", deps.VideoHandler.ListVideos)
			videos.GET("/rss", deps.VideoHandler.GenerateRSS)
			videos.GET("/:id", deps.VideoHandler.GetVideo)
			videos.POST("/:id/views", deps.VideoHandler.RecordView)

			private := videos.Group("")
			private.Use(authMiddleware)
			{
				private.POST("", writeLimiter, deps.VideoHandler.CreateVideo)
				private.DELETE("/:id", writeLimiter, deps.VideoHandler.DeleteVideo)
				private.POST("/:id/likes", deps.VideoHandler.LikeVideo)
			}
		}
	}

	return router
}
