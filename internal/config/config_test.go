package config

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("DATA_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "attendance.db", cfg.Storage.SQLitePath)
	assert.Equal(t, attendance.DefaultShiftConfig, cfg.Shift.Defaults)
	assert.Equal(t, "UTC", cfg.Shift.UserTimezone, "user zone follows the data zone")
	assert.Equal(t, time.Minute, cfg.Shift.LiveRefreshInterval)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/punches.db")
	t.Setenv("SHIFT_START_HOUR", "4")
	t.Setenv("DUPLICATE_PUNCH_THRESHOLD_MINUTES", "10")
	t.Setenv("DATA_TIMEZONE", "UTC")
	t.Setenv("USER_TIMEZONE", "UTC")
	t.Setenv("LIVE_REFRESH_INTERVAL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, attendance.ShiftConfig{ShiftStartHour: 4, DuplicatePunchThresholdMinutes: 10}, cfg.Shift.Defaults)
	assert.Equal(t, 30*time.Second, cfg.Shift.LiveRefreshInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":     {"STORAGE_DRIVER": "mongo"},
		"postgres password":  {"STORAGE_DRIVER": "postgres", "DB_PASSWORD": ""},
		"shift hour range":   {"STORAGE_DRIVER": "sqlite", "SHIFT_START_HOUR": "24"},
		"shift hour numeric": {"STORAGE_DRIVER": "sqlite", "SHIFT_START_HOUR": "six"},
		"negative threshold": {"STORAGE_DRIVER": "sqlite", "DUPLICATE_PUNCH_THRESHOLD_MINUTES": "-1"},
		"bad interval":       {"STORAGE_DRIVER": "sqlite", "LIVE_REFRESH_INTERVAL": "soon"},
		"bad timezone":       {"STORAGE_DRIVER": "sqlite", "DATA_TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DATA_TIMEZONE", "UTC")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5432, Name: "attendance", SSLMode: "disable"}}
	assert.Equal(t, "postgres://u:p@db:5432/attendance?sslmode=disable", cfg.DatabaseURL())
}
