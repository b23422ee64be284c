package models

import (
	"time"
)

// DailyReport is the device's summary transmission for one measurement
// day. Exactly one row exists per measurement date; a re-submission for
// the same date overwrites every mutable field (last-write-wins).
//
// Dates are stored as the device's ISO strings rather than time.Time:
// the wire contract is date strings, they sort correctly, and they
// behave identically across all three supported drivers.
type DailyReport struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	MeasurementDate  string    `json:"measurement_date" gorm:"size:10;uniqueIndex;not null"`
	TransmissionDate string    `json:"transmission_date" gorm:"size:32;not null"`
	StartTime        string    `json:"start_time" gorm:"size:16"`
	EndTime          string    `json:"end_time" gorm:"size:16"`
	DailyCount       int       `json:"daily_count" gorm:"not null"`
	TotalCountEver   int64     `json:"total_count_ever" gorm:"not null"`
	BatteryVoltage   float64   `json:"battery_voltage" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Rides []RideEvent `json:"rides,omitempty" gorm:"foreignKey:DailyReportID"`
}

func (DailyReport) TableName() string {
	return "daily_reports"
}

// RideEvent is one bicycle passage within a day. The full set of rides
// for a report is replaced wholesale on every re-submission, atomically
// with the report upsert.
type RideEvent struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	DailyReportID   uint   `json:"daily_report_id" gorm:"index;not null"`
	MeasurementDate string `json:"measurement_date" gorm:"size:10;index;not null"`
	RideTime        string `json:"ride_time" gorm:"size:16;not null"`
	SecondOfDay     int    `json:"second_of_day" gorm:"not null"`
}

func (RideEvent) TableName() string {
	return "bike_rides"
}
