package router

import (
	"time"

	"github.com/gunnishmehta/youtube-backend/config"
	"github.com/gunnishmehta/youtube-backend/internal/handler"
	"github.com/gunnishmehta/youtube-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	channelHandler *handler.ChannelHandler
	healthHandler  *handler.HealthHandler

	sessionMw *middleware.SessionMiddleware
	Config    *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	channel *handler.ChannelHandler,
	health *handler.HealthHandler,
	sessionMw *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		userHandler:    user,
		channelHandler: channel,
		healthHandler:  health,
		sessionMw:      sessionMw,
		Config:         cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS(r.Config.App.CORSOrigin))
	router.Use(middleware.RequestContext("http"))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			r.userRoutes(v1)
			r.videoRoutes(v1)
		}
	}

	return router
}
