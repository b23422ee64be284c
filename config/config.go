package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings loaded once at process start. Handlers and
// middleware receive it explicitly; nothing reads the file again.
type Config struct {
	Port string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBCharset  string
	DBSSLMode  string
	DBPath     string

	// Ingestion endpoint credentials
	BasicAuthUser     string
	BasicAuthPassword string

	// Payload validation bounds
	MinBatteryVoltage float64
	MaxBatteryVoltage float64

	Timezone   string
	APIVersion string
	LogLevel   string

	// Location resolved from Timezone, used for "today" defaults
	// and response timestamps.
	Location *time.Location
}

// Load reads a flat KEY=VALUE properties file (lines starting with #
// are comments). A missing file is not an error: every key except the
// auth password has a documented default.
func Load(path string) (*Config, error) {
	values := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		values, err = godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	get := func(key, fallback string) string {
		if v, ok := values[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port: get("PORT", "8080"),

		DBDriver:   get("DB_DRIVER", "mysql"),
		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "3306"),
		DBName:     get("DB_NAME", "bike_counter"),
		DBUser:     get("DB_USER", "bike_counter"),
		DBPassword: get("DB_PASSWORD", ""),
		DBCharset:  get("DB_CHARSET", "utf8mb4"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),
		DBPath:     get("DB_PATH", "bike_counter.db"),

		BasicAuthUser:     get("BASIC_AUTH_USER", "bike_counter"),
		BasicAuthPassword: get("BASIC_AUTH_PASSWORD", ""),

		Timezone:   get("TIMEZONE", "Europe/Berlin"),
		APIVersion: get("API_VERSION", "1.0"),
		LogLevel:   get("LOG_LEVEL", "info"),
	}

	minVoltage, err := strconv.ParseFloat(get("MIN_BATTERY_VOLTAGE", "10.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MIN_BATTERY_VOLTAGE: %w", err)
	}
	maxVoltage, err := strconv.ParseFloat(get("MAX_BATTERY_VOLTAGE", "15.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_BATTERY_VOLTAGE: %w", err)
	}
	cfg.MinBatteryVoltage = minVoltage
	cfg.MaxBatteryVoltage = maxVoltage

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBCharset)
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.Timezone)
	case "sqlite":
		return c.DBPath
	default:
		return ""
	}
}

// Now returns the current time in the configured timezone.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}
