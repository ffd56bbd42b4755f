package router

import (
	"time"

	"github.com/devworkshop/usersvc/config"
	"github.com/devworkshop/usersvc/internal/handler"
	"github.com/devworkshop/usersvc/internal/middleware"
	redisclient "github.com/devworkshop/usersvc/pkg/redis"
	"github.com/gin-gonic/gin"
)

type Router struct {
	userHandler  *handler.UserHandler
	authHandler  *handler.AuthHandler
	readyHandler *handler.ReadinessHandler

	jwtMw  *middleware.JWTMiddleware
	redis  *redisclient.Client
	config *config.Config
}

func NewRouter(
	user *handler.UserHandler,
	auth *handler.AuthHandler,
	ready *handler.ReadinessHandler,
	jwtMw *middleware.JWTMiddleware,
	redis *redisclient.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		userHandler:  user,
		authHandler:  auth,
		readyHandler: ready,
		jwtMw:        jwtMw,
		redis:        redis,
		config:       cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestContext())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/health/ready", r.readyHandler.Ready)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(
				r.redis,
				r.config.RateLimit.Request,
				time.Duration(r.config.RateLimit.Duration)*time.Second,
			))

			r.authRoutes(v1)
			r.userRoutes(v1)
		}
	}

	return router
}
