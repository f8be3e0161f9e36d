package main

import (
	"log"

	"jammanage-backend/internal/api/middleware"
	"jammanage-backend/internal/api/routes"
	"jammanage-backend/internal/config"
	"jammanage-backend/pkg/database"
	"jammanage-backend/pkg/jwt"
	"jammanage-backend/pkg/logger"
	"jammanage-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.MongoURI, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Disconnect(db.Client())

	redisClient := redis.NewClient(cfg.Redis, zlog)
	defer redisClient.Close()

	health := redisClient.HealthCheck()
	if !health.IsConnected {
		zlog.Warn("redis unavailable, continuing without it (will retry automatically)",
			zap.String("error", health.Error))
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zlog))

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Deps{
		DB:      db,
		Redis:   redisClient,
		JWTUtil: jwt.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiry),
		Logger:  zlog,
	})

	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
