package main

import (
	"os"
	"os/signal"
	"syscall"

	configs "github.com/gunnishmehta/youtube-backend/config"
	"github.com/gunnishmehta/youtube-backend/internal/handler"
	"github.com/gunnishmehta/youtube-backend/internal/middleware"
	"github.com/gunnishmehta/youtube-backend/internal/repository"
	"github.com/gunnishmehta/youtube-backend/internal/router"
	"github.com/gunnishmehta/youtube-backend/internal/service"
	"github.com/gunnishmehta/youtube-backend/pkg/database"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"github.com/gunnishmehta/youtube-backend/pkg/redis"
	"github.com/gunnishmehta/youtube-backend/pkg/storage"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

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
	if err := database.CreateIndexes(db); err != nil {
		logger.GetLogger().Fatal("Failed to create database indexes", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	// Redis is optional; without it channel profile reads skip the cache
	var redisClient *redis.Client
	var profileCache service.ProfileCache = service.NoopProfileCache{}
	if config.Redis.Enabled {
		redisClient, err = redis.NewClient(config)
		if err != nil {
			logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		profileCache = service.NewRedisProfileCache(redisClient, config.Redis.ProfileTTL)
	}

	mediaClient, err := storage.NewS3Client(config.Media)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to media storage", zap.Error(err))
	}

	// Services
	tokenService := service.NewTokenService(userRepo, config.JWT)
	userService := service.NewUserService(userRepo, tokenService, mediaClient)
	profileService := service.NewProfileService(userRepo, subRepo, videoRepo, mediaClient, profileCache)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, tokenService)
	userHandler := handler.NewUserHandler(userService)
	channelHandler := handler.NewChannelHandler(profileService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	sessionMiddleware := middleware.NewSessionMiddleware(tokenService)

	r := router.NewRouter(
		authHandler,
		userHandler,
		channelHandler,
		healthHandler,
		sessionMiddleware,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
