package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bike-counter-api/config"
	"bike-counter-api/models"
)

// Initialize opens the database for the configured driver.
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the schema. The unique index on measurement_date is
// what makes the ingestion upsert safe against concurrent submissions
// for the same day.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.DailyReport{},
		&models.RideEvent{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Composite index backing the per-date ride queries and CSV export.
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_bike_rides_date_time ON bike_rides(measurement_date, ride_time)").Error; err != nil {
		return fmt.Errorf("failed to add ride index: %w", err)
	}

	return nil
}
