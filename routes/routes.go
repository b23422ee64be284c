package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bike-counter-api/config"
	"bike-counter-api/controllers"
	"bike-counter-api/middleware"
	"bike-counter-api/utils"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	reportController := controllers.NewReportController(db, cfg, log)
	summaryController := controllers.NewSummaryController(db, cfg, log)
	exportController := controllers.NewExportController(db, cfg, log)
	systemController := controllers.NewSystemController(cfg)

	api := r.Group("/api")
	{
		// Only the device-facing ingestion endpoint is authenticated.
		api.POST("/daily-report", middleware.BasicAuth(cfg, log), reportController.SubmitDailyReport)

		api.GET("/daily-summary", summaryController.GetDailySummary)
		api.GET("/rides", summaryController.GetRides)
		api.GET("/rides-csv", exportController.GetRidesCSV)
		api.GET("/report-csv", exportController.GetDailyReportsCSV)
		api.GET("/battery-status", summaryController.GetBatteryStatus)
		api.GET("/total-count", summaryController.GetTotalCount)
		api.GET("/status", systemController.GetStatus)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.SendError(c, http.StatusNotFound, "Unknown endpoint", cfg.Location)
	})

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		utils.SendError(c, http.StatusMethodNotAllowed, "Method not allowed", cfg.Location)
	})
}
