package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.properties"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "bike_counter", cfg.DBName)
	assert.Equal(t, "bike_counter", cfg.BasicAuthUser)
	assert.Empty(t, cfg.BasicAuthPassword)
	assert.Equal(t, 10.0, cfg.MinBatteryVoltage)
	assert.Equal(t, 15.0, cfg.MaxBatteryVoltage)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "1.0", cfg.APIVersion)
	require.NotNil(t, cfg.Location)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.properties")
	content := `# Bike counter configuration
DB_DRIVER=sqlite
DB_PATH=/tmp/counter.db
BASIC_AUTH_PASSWORD=hunter2
MIN_BATTERY_VOLTAGE=9.5
MAX_BATTERY_VOLTAGE=14.2
TIMEZONE=UTC
API_VERSION=2.1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/counter.db", cfg.DBPath)
	assert.Equal(t, "hunter2", cfg.BasicAuthPassword)
	assert.Equal(t, 9.5, cfg.MinBatteryVoltage)
	assert.Equal(t, 14.2, cfg.MaxBatteryVoltage)
	assert.Equal(t, "2.1", cfg.APIVersion)
	// Absent keys still fall back.
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_InvalidVoltageBound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.properties")
	require.NoError(t, os.WriteFile(path, []byte("MIN_BATTERY_VOLTAGE=abc\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_BATTERY_VOLTAGE")
}

func TestLoad_InvalidTimezone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.properties")
	require.NoError(t, os.WriteFile(path, []byte("TIMEZONE=Mars/Olympus_Mons\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBDriver: "mysql", DBHost: "db", DBPort: "3306", DBName: "bike_counter",
		DBUser: "counter", DBPassword: "pw", DBCharset: "utf8mb4",
	}
	assert.Equal(t,
		"counter:pw@tcp(db:3306)/bike_counter?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DSN())

	cfg.DBDriver = "sqlite"
	cfg.DBPath = "counter.db"
	assert.Equal(t, "counter.db", cfg.DSN())

	cfg.DBDriver = "unknown"
	assert.Empty(t, cfg.DSN())
}
