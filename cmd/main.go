package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/devworkshop/usersvc/config"
	"github.com/devworkshop/usersvc/internal/handler"
	"github.com/devworkshop/usersvc/internal/middleware"
	"github.com/devworkshop/usersvc/internal/repository"
	"github.com/devworkshop/usersvc/internal/router"
	"github.com/devworkshop/usersvc/internal/service"
	"github.com/devworkshop/usersvc/pkg/database"
	"github.com/devworkshop/usersvc/pkg/hash"
	"github.com/devworkshop/usersvc/pkg/health"
	"github.com/devworkshop/usersvc/pkg/logger"
	redisclient "github.com/devworkshop/usersvc/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	// Database
	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db); err != nil {
		// Seed data may already exist; keep starting
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	} else {
		logger.GetLogger().Info("Database seeded successfully")
	}

	// Redis (rate limiter state; the service itself never caches)
	redisClient := redisclient.NewClient(redisclient.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	})
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)

	// Services
	jwtService := service.NewJWTService(config.JWT.Secret, config.JWT.ExpirationTime)
	hasher := hash.NewBcryptHasher()
	userService := service.NewUserServiceWithJWT(userRepo, hasher, jwtService, config.Users.DefaultRoleID)

	// Dependency monitor backing the readiness endpoint
	monitor := health.NewMonitor(30*time.Second, logger.GetLogger())
	monitor.Register("postgres", &health.DatabaseChecker{DB: db})
	monitor.Register("redis", &health.RedisChecker{Client: redisClient})
	monitor.Start()
	defer monitor.Stop()

	// Handlers and routes
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(userService)
	readyHandler := handler.NewReadinessHandler(monitor)
	jwtMw := middleware.NewJWTMiddleware(jwtService)

	engine := router.NewRouter(userHandler, authHandler, readyHandler, jwtMw, redisClient, config).SetupRoutes()

	server := &http.Server{
		Addr:         ":" + config.App.Port,
		Handler:      engine,
		ReadTimeout:  config.App.Timeout,
		WriteTimeout: config.App.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.GetLogger().Info("HTTP server listening", zap.String("port", config.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.GetLogger().Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.GetLogger().Info("Server stopped")
}
