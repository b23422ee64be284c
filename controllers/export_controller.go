package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bike-counter-api/config"
	"bike-counter-api/models"
	"bike-counter-api/utils"
)

// utf8BOM lets Excel detect the encoding of the downloaded file.
const utf8BOM = "\xEF\xBB\xBF"

type ExportController struct {
	db  *gorm.DB
	cfg *config.Config
	log *zap.Logger
}

func NewExportController(db *gorm.DB, cfg *config.Config, log *zap.Logger) *ExportController {
	return &ExportController{db: db, cfg: cfg, log: log}
}

// dateRange applies the optional inclusive start/end filter; either
// bound may be given on its own.
func dateRange(query *gorm.DB, column, startDate, endDate string) *gorm.DB {
	switch {
	case startDate != "" && endDate != "":
		return query.Where(column+" BETWEEN ? AND ?", startDate, endDate)
	case startDate != "":
		return query.Where(column+" >= ?", startDate)
	case endDate != "":
		return query.Where(column+" <= ?", endDate)
	}
	return query
}

// writeCSV streams a semicolon-delimited download with a UTF-8 BOM.
func (ec *ExportController) writeCSV(c *gin.Context, filename string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Status(http.StatusOK)

	if _, err := c.Writer.WriteString(utf8BOM); err != nil {
		return
	}

	writer := csv.NewWriter(c.Writer)
	writer.Comma = ';'
	if err := writer.Write(header); err != nil {
		return
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return
		}
	}
	writer.Flush()
}

// GetRidesCSV exports individual rides. Row numbers are a 1-based rank
// within each ride's own date, restarting for every new date.
func (ec *ExportController) GetRidesCSV(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	var rides []models.RideEvent
	query := dateRange(ec.db.Model(&models.RideEvent{}), "measurement_date", startDate, endDate)
	if err := query.Order("measurement_date ASC, ride_time ASC").Find(&rides).Error; err != nil {
		ec.log.Error("rides csv query failed", zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Internal server error", ec.cfg.Location)
		return
	}

	if len(rides) == 0 {
		utils.SendError(c, http.StatusNotFound, "No ride data available for the specified period.", ec.cfg.Location)
		return
	}

	rows := make([][]string, 0, len(rides))
	currentDate := ""
	rank := 0
	for _, ride := range rides {
		if ride.MeasurementDate != currentDate {
			currentDate = ride.MeasurementDate
			rank = 0
		}
		rank++
		rows = append(rows, []string{
			strconv.Itoa(rank),
			ride.MeasurementDate,
			ride.RideTime,
		})
	}

	filename := "bike_rides_report_" + ec.cfg.Now().Format("20060102_150405") + ".csv"
	ec.writeCSV(c, filename, []string{"Nr", "Datum", "Uhrzeit"}, rows)
}

// GetDailyReportsCSV exports one row per daily report. The voltage is
// decimal-comma formatted for the German Excel locale.
func (ec *ExportController) GetDailyReportsCSV(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	var reports []models.DailyReport
	query := dateRange(ec.db.Model(&models.DailyReport{}), "measurement_date", startDate, endDate)
	if err := query.Order("measurement_date ASC").Find(&reports).Error; err != nil {
		ec.log.Error("reports csv query failed", zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "Internal server error", ec.cfg.Location)
		return
	}

	if len(reports) == 0 {
		utils.SendError(c, http.StatusNotFound, "No daily report data available for the specified period.", ec.cfg.Location)
		return
	}

	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		voltage := strings.ReplaceAll(strconv.FormatFloat(report.BatteryVoltage, 'f', -1, 64), ".", ",")
		rows = append(rows, []string{
			report.MeasurementDate,
			strconv.Itoa(report.DailyCount),
			strconv.FormatInt(report.TotalCountEver, 10),
			voltage,
			report.StartTime,
			report.EndTime,
			report.TransmissionDate,
		})
	}

	header := []string{
		"Messdatum",
		"Tägliche Fahrten",
		"Gesamtzahl Fahrten (ever)",
		"Batteriespannung (V)",
		"Startzeitpunkt Tag",
		"Endzeitpunkt Tag",
		"Übertragungsdatum",
	}
	filename := "daily_reports_" + ec.cfg.Now().Format("20060102_150405") + ".csv"
	ec.writeCSV(c, filename, header, rows)
}
