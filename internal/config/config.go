package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Shift    ShiftConfig
	CORS     CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// StorageConfig selects where the punch snapshot is read from
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

// ShiftConfig holds the process-wide engine defaults. Requests may override
// the shift settings per call.
type ShiftConfig struct {
	Defaults            attendance.ShiftConfig
	DataTimezone        string
	UserTimezone        string
	LiveRefreshInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Storage = StorageConfig{
		Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		SQLitePath: getEnv("SQLITE_PATH", "attendance.db"),
	}

	// Shift engine configuration
	shiftStartHour, err := strconv.Atoi(getEnv("SHIFT_START_HOUR", strconv.Itoa(attendance.DefaultShiftConfig.ShiftStartHour)))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIFT_START_HOUR: %w", err)
	}

	duplicateThreshold, err := strconv.Atoi(getEnv("DUPLICATE_PUNCH_THRESHOLD_MINUTES", strconv.Itoa(attendance.DefaultShiftConfig.DuplicatePunchThresholdMinutes)))
	if err != nil {
		return nil, fmt.Errorf("invalid DUPLICATE_PUNCH_THRESHOLD_MINUTES: %w", err)
	}

	refreshInterval, err := time.ParseDuration(getEnv("LIVE_REFRESH_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LIVE_REFRESH_INTERVAL: %w", err)
	}

	dataTimezone := getEnv("DATA_TIMEZONE", "Europe/Berlin")
	config.Shift = ShiftConfig{
		Defaults: attendance.ShiftConfig{
			ShiftStartHour:                 shiftStartHour,
			DuplicatePunchThresholdMinutes: duplicateThreshold,
		},
		DataTimezone:        dataTimezone,
		UserTimezone:        getEnv("USER_TIMEZONE", dataTimezone),
		LiveRefreshInterval: refreshInterval,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	slog.Debug("Configuration loaded", "env", config.App.Env, "storage", config.Storage.Driver)
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverSQLite, c.Storage.Driver)
	}

	if err := c.Shift.Defaults.Validate(); err != nil {
		return fmt.Errorf("invalid shift configuration: %w", err)
	}
	if c.Shift.LiveRefreshInterval <= 0 {
		return fmt.Errorf("LIVE_REFRESH_INTERVAL must be positive")
	}
	if _, err := c.DataLocation(); err != nil {
		return err
	}
	if _, err := c.UserLocation(); err != nil {
		return err
	}
	return nil
}

// DataLocation is the zone raw punch clocks are recorded in
func (c *Config) DataLocation() (*time.Location, error) {
	return loadLocation("DATA_TIMEZONE", c.Shift.DataTimezone)
}

// UserLocation is the zone sessions are displayed in
func (c *Config) UserLocation() (*time.Location, error) {
	return loadLocation("USER_TIMEZONE", c.Shift.UserTimezone)
}

func loadLocation(key, name string) (*time.Location, error) {
	loc, ok := validator.IsValidTimezone(name)
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", key, name, attendance.ErrInvalidTimezone)
	}
	return loc, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
