package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// RECORD QUERY DTOs
// ========================================

// MaxRangeDays bounds how many shift-days a single query may materialize.
const MaxRangeDays = 366

type RecordQuery struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD

	// Downstream filters
	Devices     []string     `json:"devices,omitempty"`
	Departments []string     `json:"departments,omitempty"`
	Status      RecordStatus `json:"status,omitempty"`
	Search      string       `json:"search,omitempty"`

	// Per-call shift configuration
	Shift ShiftConfigOverride `json:"shift,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (q *RecordQuery) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(q.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(q.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if int(end.Sub(start).Hours()/24)+1 > MaxRangeDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: fmt.Sprintf("date range must not exceed %d days", MaxRangeDays),
			})
		}
	}

	if q.Status == "" {
		q.Status = StatusAll
	}
	validStatuses := []string{string(StatusAll), string(StatusWorking), string(StatusMissed), string(StatusComplete)}
	if !validator.IsInSlice(string(q.Status), validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: all, working, missed, complete",
		})
	}

	if h := q.Shift.ShiftStartHour; h != nil && !validator.IsValidHour(*h) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_start_hour",
			Message: "shift_start_hour must be between 0 and 23",
		})
	}

	if m := q.Shift.DuplicatePunchThresholdMinutes; m != nil && *m < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "duplicate_threshold_minutes",
			Message: "duplicate_threshold_minutes must not be negative",
		})
	}

	// Page validation
	if q.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if q.Page == 0 {
		q.Page = 1 // Default page
	}

	// Limit validation
	if q.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if q.Limit == 0 {
		q.Limit = 50 // Default limit
	}
	if q.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Filter returns the downstream filter part of the query.
func (q RecordQuery) Filter() RecordFilter {
	return RecordFilter{
		Devices:     q.Devices,
		Departments: q.Departments,
		Status:      q.Status,
		Search:      q.Search,
	}
}

// RecordFilter configures the filters applied after hour computation.
// Empty fields disable the corresponding filter.
type RecordFilter struct {
	Devices     []string
	Departments []string
	Status      RecordStatus
	Search      string
}

type ListRecordsResponse struct {
	TotalCount int                         `json:"total_count"`
	Page       int                         `json:"page"`
	Limit      int                         `json:"limit"`
	TotalPages int                         `json:"total_pages"`
	Showing    string                      `json:"showing"`
	Config     ShiftConfig                 `json:"config"`
	Records    []ProcessedAttendanceRecord `json:"records"`
}

// ========================================
// SUMMARY DTOs
// ========================================

type DeviceHours struct {
	Device string          `json:"device"`
	Hours  decimal.Decimal `json:"hours"`
}

type EmployeeSummary struct {
	EmployeeCode string          `json:"employee_code"`
	EmployeeName string          `json:"employee_name"`
	Department   string          `json:"department"`
	Days         int             `json:"days"`
	Complete     int             `json:"complete"`
	Missed       int             `json:"missed"`
	Working      int             `json:"working"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	Devices      []DeviceHours   `json:"devices"`
}

// ========================================
// INGEST DTOs
// ========================================

type IngestResponse struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
	Skipped  int `json:"skipped"`
}
