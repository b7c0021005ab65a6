package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional --config YAML file.
//
//	shift_start_hour: 6
//	duplicate_punch_threshold_minutes: 15
//	data_timezone: Europe/Berlin
//	user_timezone: Europe/Berlin
type fileConfig struct {
	Shift        attendance.ShiftConfigOverride `yaml:",inline"`
	DataTimezone string                         `yaml:"data_timezone"`
	UserTimezone string                         `yaml:"user_timezone"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return fc, nil
}

// options builds pipeline options from the file config. Missing zones fall
// back to the default data timezone.
func (fc fileConfig) options(now time.Time) (attendanceService.Options, error) {
	cfg := fc.Shift.Apply(attendance.DefaultShiftConfig)
	if err := cfg.Validate(); err != nil {
		return attendanceService.Options{}, err
	}

	dataLoc, err := loadZone(fc.DataTimezone)
	if err != nil {
		return attendanceService.Options{}, err
	}
	userLoc, err := loadZone(fc.UserTimezone)
	if err != nil {
		return attendanceService.Options{}, err
	}
	return attendanceService.NewOptions(cfg, dataLoc, userLoc, now), nil
}

func loadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, nil
	}
	loc, ok := validator.IsValidTimezone(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, attendance.ErrInvalidTimezone)
	}
	return loc, nil
}

// loadEmployees reads an employee directory. JSON files parse as YAML.
func loadEmployees(path string) ([]employee.Employee, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	var employees []employee.Employee
	if err := yaml.Unmarshal(data, &employees); err != nil {
		return nil, fmt.Errorf("failed to parse employees %s: %w", path, err)
	}
	return employees, nil
}
