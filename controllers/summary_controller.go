package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bike-counter-api/config"
	"bike-counter-api/models"
	"bike-counter-api/utils"
)

type SummaryController struct {
	db  *gorm.DB
	cfg *config.Config
	log *zap.Logger
}

func NewSummaryController(db *gorm.DB, cfg *config.Config, log *zap.Logger) *SummaryController {
	return &SummaryController{db: db, cfg: cfg, log: log}
}

// DailySummaryRow is one per-day aggregate joining a report with its
// recorded rides. First/last ride are nullable: a report can exist
// with zero ride rows.
type DailySummaryRow struct {
	MeasurementDate  string  `json:"measurement_date"`
	DailyCount       int     `json:"daily_count"`
	TotalCountEver   int64   `json:"total_count_ever"`
	BatteryVoltage   float64 `json:"battery_voltage"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	TransmissionDate string  `json:"transmission_date"`
	RecordedRides    int     `json:"recorded_rides"`
	FirstRide        *string `json:"first_ride"`
	LastRide         *string `json:"last_ride"`
}

// GetDailySummary returns per-day aggregates for a date range,
// defaulting to the last 7 days in the configured timezone.
func (sc *SummaryController) GetDailySummary(c *gin.Context) {
	now := sc.cfg.Now()
	startDate := c.DefaultQuery("start_date", now.AddDate(0, 0, -7).Format("2006-01-02"))
	endDate := c.DefaultQuery("end_date", now.Format("2006-01-02"))

	var rows []DailySummaryRow
	err := sc.db.Table("daily_reports dr").
		Select("dr.measurement_date, dr.daily_count, dr.total_count_ever, dr.battery_voltage, "+
			"dr.start_time, dr.end_time, dr.transmission_date, "+
			"COUNT(br.id) AS recorded_rides, MIN(br.ride_time) AS first_ride, MAX(br.ride_time) AS last_ride").
		Joins("LEFT JOIN bike_rides br ON br.daily_report_id = dr.id").
		Where("dr.measurement_date BETWEEN ? AND ?", startDate, endDate).
		Group("dr.id, dr.measurement_date, dr.daily_count, dr.total_count_ever, dr.battery_voltage, " +
			"dr.start_time, dr.end_time, dr.transmission_date").
		Order("dr.measurement_date DESC").
		Scan(&rows).Error
	if err != nil {
		sc.log.Error("daily summary query failed", zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Internal server error", sc.cfg.Location)
		return
	}

	totalRides := 0
	for _, row := range rows {
		totalRides += row.DailyCount
	}
	if rows == nil {
		rows = []DailySummaryRow{}
	}

	c.JSON(http.StatusOK, gin.H{
		"period":          gin.H{"start": startDate, "end": endDate},
		"total_days":      len(rows),
		"total_rides":     totalRides,
		"daily_summaries": rows,
	})
}

type rideWithReport struct {
	RideTime        string  `json:"ride_time"`
	SecondOfDay     int     `json:"second_of_day"`
	MeasurementDate string  `json:"measurement_date"`
	DailyCount      int     `json:"daily_count"`
	BatteryVoltage  float64 `json:"battery_voltage"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
}

// GetRides returns every ride for one date (default today) ordered by
// ride time, with the owning report's metadata. Zero rides is a valid
// response, not an error.
func (sc *SummaryController) GetRides(c *gin.Context) {
	date := c.DefaultQuery("date", sc.cfg.Now().Format("2006-01-02"))

	var rides []rideWithReport
	err := sc.db.Table("bike_rides br").
		Select("br.ride_time, br.second_of_day, br.measurement_date, "+
			"dr.daily_count, dr.battery_voltage, dr.start_time, dr.end_time").
		Joins("JOIN daily_reports dr ON br.daily_report_id = dr.id").
		Where("br.measurement_date = ?", date).
		Order("br.ride_time ASC").
		Scan(&rides).Error
	if err != nil {
		sc.log.Error("rides query failed", zap.String("date", date), zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Internal server error", sc.cfg.Location)
		return
	}

	if len(rides) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"date":    date,
			"message": "No rides found for this date",
			"rides":   []gin.H{},
		})
		return
	}

	rideList := make([]gin.H, 0, len(rides))
	for _, ride := range rides {
		rideList = append(rideList, gin.H{
			"time":          ride.RideTime,
			"second_of_day": ride.SecondOfDay,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        date,
		"total_rides": len(rides),
		"daily_total": rides[0].DailyCount,
		"period": gin.H{
			"start": rides[0].StartTime,
			"end":   rides[0].EndTime,
		},
		"battery_voltage": rides[0].BatteryVoltage,
		"rides":           rideList,
	})
}

// GetBatteryStatus exposes the most recently transmitted voltage with
// an OK/LOW flag at the 11.5V threshold.
func (sc *SummaryController) GetBatteryStatus(c *gin.Context) {
	report, ok := sc.latestReport(c)
	if !ok {
		return
	}
	if report == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No battery data available"})
		return
	}

	status := "OK"
	if report.BatteryVoltage < 11.5 {
		status = "LOW"
	}

	c.JSON(http.StatusOK, gin.H{
		"battery_voltage":   report.BatteryVoltage,
		"measurement_date":  report.MeasurementDate,
		"last_transmission": report.TransmissionDate,
		"status":            status,
	})
}

// GetTotalCount exposes the device's lifetime counter from the most
// recent transmission.
func (sc *SummaryController) GetTotalCount(c *gin.Context) {
	report, ok := sc.latestReport(c)
	if !ok {
		return
	}
	if report == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No count data available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_count_ever":  report.TotalCountEver,
		"measurement_date":  report.MeasurementDate,
		"last_transmission": report.TransmissionDate,
	})
}

// latestReport finds the newest report by transmission date with id as
// tie-break. Returns (nil, true) when the table is empty; (nil, false)
// after having written an error response.
func (sc *SummaryController) latestReport(c *gin.Context) (*models.DailyReport, bool) {
	var report models.DailyReport
	err := sc.db.Order("transmission_date DESC, id DESC").First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, true
	}
	if err != nil {
		sc.log.Error("latest report query failed", zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Internal server error", sc.cfg.Location)
		return nil, false
	}
	return &report, true
}
