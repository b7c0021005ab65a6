package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
)

type AttendanceServiceImpl struct {
	attendance.PunchRepository
	employee.EmployeeRepository

	config       attendance.ShiftConfig
	dataLocation *time.Location
	userLocation *time.Location
	now          func() time.Time
}

// options builds the per-call pipeline options. Now is read exactly once.
func (a *AttendanceServiceImpl) options(override attendance.ShiftConfigOverride) (Options, error) {
	cfg := override.Apply(a.config)
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	return NewOptions(cfg, a.dataLocation, a.userLocation, a.now()), nil
}

// compute loads the snapshot for the query range and runs the pipeline.
func (a *AttendanceServiceImpl) compute(ctx context.Context, query attendance.RecordQuery) ([]attendance.ProcessedAttendanceRecord, attendance.RecordQuery, Options, error) {
	if err := query.Validate(); err != nil {
		return nil, query, Options{}, err
	}

	opts, err := a.options(query.Shift)
	if err != nil {
		return nil, query, Options{}, err
	}

	// The day after the range feeds the early-morning tail of the last shift-day.
	punches, err := a.PunchRepository.ListPunches(ctx, query.StartDate, addDays(query.EndDate, 1))
	if err != nil {
		return nil, query, Options{}, fmt.Errorf("failed to list punches: %w", err)
	}

	employees, err := a.EmployeeRepository.ListEmployees(ctx)
	if err != nil {
		return nil, query, Options{}, fmt.Errorf("failed to list employees: %w", err)
	}

	records := Run(punches, employees, query.StartDate, query.EndDate, opts, query.Filter())
	return records, query, opts, nil
}

// ListRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListRecords(ctx context.Context, query attendance.RecordQuery) (attendance.ListRecordsResponse, error) {
	records, query, opts, err := a.compute(ctx, query)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	total := len(records)
	from := min((query.Page-1)*query.Limit, total)
	to := min(query.Page*query.Limit, total)

	totalPages := int(math.Ceil(float64(total) / float64(query.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", from+1, to, total)
	if from >= to {
		showing = fmt.Sprintf("0 of %d", total)
	}

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Config:     opts.Config,
		Records:    records[from:to],
	}, nil
}

// Summarize implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Summarize(ctx context.Context, query attendance.RecordQuery) ([]attendance.EmployeeSummary, error) {
	records, _, _, err := a.compute(ctx, query)
	if err != nil {
		return nil, err
	}
	return SummarizeRecords(records), nil
}

// Export implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Export(ctx context.Context, query attendance.RecordQuery, w io.Writer) error {
	records, _, _, err := a.compute(ctx, query)
	if err != nil {
		return err
	}
	return WriteTimesheet(w, records, SummarizeRecords(records))
}

// IngestPunches implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) IngestPunches(ctx context.Context, raw []byte) (attendance.IngestResponse, error) {
	punches := NormalizePunches(json.RawMessage(raw))
	if len(punches) == 0 {
		return attendance.IngestResponse{}, attendance.ErrEmptyPunchSource
	}

	dated := make([]attendance.DatedPunch, 0, len(punches))
	skipped := 0
	for _, p := range punches {
		date, _, err := ResolvePunchClock(p, a.dataLocation)
		if err != nil {
			slog.Warn("Skipping punch without usable timestamp",
				"punch_id", p.ID,
				"employee_id", p.EmployeeID,
				"error", err)
			skipped++
			continue
		}
		dated = append(dated, attendance.DatedPunch{Punch: p, Date: date})
	}
	if len(dated) == 0 {
		return attendance.IngestResponse{}, attendance.ErrEmptyPunchSource
	}

	stored, err := a.PunchRepository.SavePunches(ctx, dated)
	if err != nil {
		return attendance.IngestResponse{}, fmt.Errorf("failed to save punches: %w", err)
	}

	slog.Info("Punches ingested", "received", len(punches), "stored", stored, "skipped", skipped)

	return attendance.IngestResponse{
		Received: len(punches),
		Stored:   stored,
		Skipped:  skipped,
	}, nil
}

// LiveSnapshot implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) LiveSnapshot(ctx context.Context) ([]attendance.ProcessedAttendanceRecord, error) {
	today := a.now().In(a.dataLocation).Format(dateLayout)
	records, _, _, err := a.compute(ctx, attendance.RecordQuery{
		StartDate: addDays(today, -1),
		EndDate:   today,
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func NewAttendanceService(
	punchRepo attendance.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	config attendance.ShiftConfig,
	dataLocation *time.Location,
	userLocation *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	opts := NewOptions(config, dataLocation, userLocation, time.Time{})
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		PunchRepository:    punchRepo,
		EmployeeRepository: employeeRepo,
		config:             config,
		dataLocation:       opts.DataLocation,
		userLocation:       opts.UserLocation,
		now:                now,
	}
}
