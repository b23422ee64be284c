package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bike-counter-api/config"
	"bike-counter-api/models"
	"bike-counter-api/utils"
)

type ReportController struct {
	db  *gorm.DB
	cfg *config.Config
	log *zap.Logger
}

func NewReportController(db *gorm.DB, cfg *config.Config, log *zap.Logger) *ReportController {
	return &ReportController{db: db, cfg: cfg, log: log}
}

// DailyReportRequest is the ingestion payload. Every field is a
// pointer so that absent keys are distinguishable from zero values;
// ride_timestamps stays raw until its shape has been checked.
type DailyReportRequest struct {
	TransmissionDate *string          `json:"transmission_date"`
	MeasurementDate  *string          `json:"measurement_date"`
	StartSecondOfDay *int             `json:"start_second_of_day"`
	EndSecondOfDay   *int             `json:"end_second_of_day"`
	DailyCount       *int             `json:"daily_count"`
	TotalCountEver   *int64           `json:"total_count_ever"`
	BatteryVoltage   *float64         `json:"battery_voltage"`
	RideTimestamps   *json.RawMessage `json:"ride_timestamps"`
}

// missingField returns the name of the first absent required field.
func (r *DailyReportRequest) missingField() string {
	switch {
	case r.TransmissionDate == nil:
		return "transmission_date"
	case r.MeasurementDate == nil:
		return "measurement_date"
	case r.StartSecondOfDay == nil:
		return "start_second_of_day"
	case r.EndSecondOfDay == nil:
		return "end_second_of_day"
	case r.DailyCount == nil:
		return "daily_count"
	case r.TotalCountEver == nil:
		return "total_count_ever"
	case r.BatteryVoltage == nil:
		return "battery_voltage"
	case r.RideTimestamps == nil:
		return "ride_timestamps"
	}
	return ""
}

// SubmitDailyReport validates the device payload and replaces that
// day's report and ride rows inside a single transaction. Submitting
// the same payload twice yields the same final state.
func (rc *ReportController) SubmitDailyReport(c *gin.Context) {
	var req DailyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid JSON payload", rc.cfg.Location)
		return
	}

	if field := req.missingField(); field != "" {
		utils.SendError(c, http.StatusBadRequest, fmt.Sprintf("Missing required field: %s", field), rc.cfg.Location)
		return
	}

	if *req.BatteryVoltage < rc.cfg.MinBatteryVoltage || *req.BatteryVoltage > rc.cfg.MaxBatteryVoltage {
		utils.SendError(c, http.StatusBadRequest, "Battery voltage out of valid range", rc.cfg.Location)
		return
	}

	var timestamps []int
	if err := json.Unmarshal(*req.RideTimestamps, &timestamps); err != nil {
		utils.SendError(c, http.StatusBadRequest, "ride_timestamps must be an array", rc.cfg.Location)
		return
	}

	// Strict consistency between the device's self-reported count and
	// the list it actually sent; no partial acceptance.
	if len(timestamps) != *req.DailyCount {
		utils.SendError(c, http.StatusBadRequest, "Number of timestamps must match daily_count", rc.cfg.Location)
		return
	}

	var report models.DailyReport
	err := rc.db.Transaction(func(tx *gorm.DB) error {
		report = models.DailyReport{
			MeasurementDate:  *req.MeasurementDate,
			TransmissionDate: *req.TransmissionDate,
			StartTime:        utils.SecondOfDayToTime(*req.StartSecondOfDay),
			EndTime:          utils.SecondOfDayToTime(*req.EndSecondOfDay),
			DailyCount:       *req.DailyCount,
			TotalCountEver:   *req.TotalCountEver,
			BatteryVoltage:   *req.BatteryVoltage,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "measurement_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"transmission_date", "start_time", "end_time",
				"daily_count", "total_count_ever", "battery_voltage", "updated_at",
			}),
		}).Create(&report).Error; err != nil {
			return err
		}

		// Read-after-write inside the same transaction: the id must be
		// the row for this date whether the upsert inserted or updated.
		if err := tx.Where("measurement_date = ?", *req.MeasurementDate).
			First(&report).Error; err != nil {
			return err
		}

		if err := tx.Where("daily_report_id = ?", report.ID).
			Delete(&models.RideEvent{}).Error; err != nil {
			return err
		}

		if len(timestamps) == 0 {
			return nil
		}

		rides := make([]models.RideEvent, 0, len(timestamps))
		for _, secondOfDay := range timestamps {
			rides = append(rides, models.RideEvent{
				DailyReportID:   report.ID,
				MeasurementDate: *req.MeasurementDate,
				RideTime:        utils.SecondOfDayToTime(secondOfDay),
				SecondOfDay:     secondOfDay,
			})
		}
		return tx.Create(&rides).Error
	})
	if err != nil {
		rc.log.Error("daily report transaction failed",
			zap.String("measurement_date", *req.MeasurementDate),
			zap.Error(err),
		)
		utils.SendError(c, http.StatusInternalServerError, "Internal server error", rc.cfg.Location)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Daily report saved successfully",
		"report_id":   report.ID,
		"rides_saved": len(timestamps),
		"timestamp":   utils.Timestamp(rc.cfg.Location),
	})
}
