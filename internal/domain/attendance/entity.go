package attendance

import (
	"time"
)

// Punch is a raw clock event as delivered by a device export or a punch store.
// A punch carries either an ISO timestamp (PunchTimestampUTC or PunchTime) or
// the legacy NGTeco pair AttDate/AttendanceStatus.
type Punch struct {
	ID                string `json:"id,omitempty"`
	EmployeeID        string `json:"employeeId"`
	PunchTime         string `json:"punchTime,omitempty"`
	PunchTimestampUTC string `json:"punchTimestampUTC,omitempty"`
	AttDate           string `json:"att_date,omitempty"`
	AttendanceStatus  string `json:"attendance_status,omitempty"`
	PunchFrom         string `json:"punch_from"`
	Ignored           bool   `json:"ignored,omitempty"`
}

// DatedPunch is a raw punch together with the calendar date (data timezone)
// it was recorded on. Repositories index punches by this date.
type DatedPunch struct {
	Punch
	Date string
}

// EnrichedPunch is a punch joined with the employee directory.
type EnrichedPunch struct {
	Punch
	EmployeeName  string
	Department    string
	AccountHolder string
	IBAN          string
	BIC           string
}

// AttendancePunch is a normalized punch inside a record.
type AttendancePunch struct {
	ID        string `json:"id"`
	PunchTime string `json:"punch_time"` // HH:mm:ss
	PunchFrom string `json:"punch_from"`
	PunchDate string `json:"punch_date"` // YYYY-MM-DD
	Ignored   bool   `json:"ignored"`
}

// AttendanceRecord holds the punches of one employee on one day.
type AttendanceRecord struct {
	EmployeeCode  string            `json:"employee_code"`
	Date          string            `json:"date"`
	Punches       []AttendancePunch `json:"punches"`
	EmployeeName  string            `json:"employee_name"`
	Department    string            `json:"department"`
	AccountHolder string            `json:"account_holder,omitempty"`
	IBAN          string            `json:"iban,omitempty"`
	BIC           string            `json:"bic,omitempty"`

	// Precomputed total hours; when set it overrides the calculation.
	PrecomputedHours *float64 `json:"precomputed_hours,omitempty"`
}

// Shift is the share of a record's hours attributed to one device.
type Shift struct {
	Device  string            `json:"device"`
	Hours   float64           `json:"hours"`
	Punches []AttendancePunch `json:"punches"`
}

// Session is an inferred work interval. Open sessions end at "now".
type Session struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Open  bool      `json:"open,omitempty"`
}

// Hours returns the session length in fractional hours.
func (s Session) Hours() float64 {
	h := s.End.Sub(s.Start).Hours()
	if h < 0 {
		return 0
	}
	return h
}

type RecordStatus string

const (
	StatusAll      RecordStatus = "all"
	StatusWorking  RecordStatus = "working"
	StatusMissed   RecordStatus = "missed"
	StatusComplete RecordStatus = "complete"
)

// ProcessedAttendanceRecord is a shift-day record with computed hours.
type ProcessedAttendanceRecord struct {
	AttendanceRecord
	Shifts                []Shift      `json:"shifts"`
	TotalHours            float64      `json:"total_hours"`
	Sessions              []Session    `json:"sessions"`
	Status                RecordStatus `json:"status"`
	IsPreviousDayCheckout bool         `json:"is_previous_day_checkout"`
}

// ShiftConfig controls shift-day bucketing and duplicate suppression.
type ShiftConfig struct {
	// Hour of day (0..23) at which a new shift-day begins.
	ShiftStartHour int `json:"shift_start_hour" yaml:"shift_start_hour"`
	// Same-device punches closer than this are treated as duplicates.
	DuplicatePunchThresholdMinutes int `json:"duplicate_punch_threshold_minutes" yaml:"duplicate_punch_threshold_minutes"`
}

// DefaultShiftConfig is used whenever a caller supplies no configuration:
// shift-days start at 06:00 and same-device punches within 15 minutes collapse.
var DefaultShiftConfig = ShiftConfig{
	ShiftStartHour:                 6,
	DuplicatePunchThresholdMinutes: 15,
}

// ShiftConfigOverride carries optional per-call overrides. Nil fields keep
// the base value.
type ShiftConfigOverride struct {
	ShiftStartHour                 *int `json:"shift_start_hour,omitempty" yaml:"shift_start_hour"`
	DuplicatePunchThresholdMinutes *int `json:"duplicate_punch_threshold_minutes,omitempty" yaml:"duplicate_punch_threshold_minutes"`
}

// Apply returns base with the non-nil override fields replaced.
func (o ShiftConfigOverride) Apply(base ShiftConfig) ShiftConfig {
	if o.ShiftStartHour != nil {
		base.ShiftStartHour = *o.ShiftStartHour
	}
	if o.DuplicatePunchThresholdMinutes != nil {
		base.DuplicatePunchThresholdMinutes = *o.DuplicatePunchThresholdMinutes
	}
	return base
}

// Validate reports whether the configuration is usable.
func (c ShiftConfig) Validate() error {
	if c.ShiftStartHour < 0 || c.ShiftStartHour > 23 {
		return ErrInvalidShiftStartHour
	}
	if c.DuplicatePunchThresholdMinutes < 0 {
		return ErrInvalidDuplicateThreshold
	}
	return nil
}

// Punch source shapes accepted besides plain slices and id-keyed maps.

// DocumentSnapshot mirrors a query-result document: an id plus a data accessor.
type DocumentSnapshot struct {
	ID   string
	Data func() Punch
}

// QuerySnapshot mirrors a query result wrapper holding documents.
type QuerySnapshot struct {
	Docs []DocumentSnapshot
}

// DataEnvelope wraps punches as {"data": [...]}.
type DataEnvelope struct {
	Data []Punch `json:"data"`
}
