package main

import (
	"flag"
	"log"

	"github.com/gin-gonic/gin"

	"bike-counter-api/config"
	"bike-counter-api/database"
	"bike-counter-api/logger"
	"bike-counter-api/middleware"
	"bike-counter-api/routes"
)

func main() {
	configPath := flag.String("config", "config.properties", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	zapLog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zapLog.Sync()

	db, err := database.Initialize(cfg)
	if err != nil {
		zapLog.Fatal("Failed to connect to database: " + err.Error())
	}

	if err := database.Migrate(db); err != nil {
		zapLog.Fatal("Failed to migrate database: " + err.Error())
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(zapLog))
	router.Use(gin.Recovery())

	routes.SetupRoutes(router, db, cfg, zapLog)

	zapLog.Info("Starting Bike Counter API on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		zapLog.Fatal("Failed to start server: " + err.Error())
	}
}
