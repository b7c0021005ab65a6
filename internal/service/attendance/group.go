package attendance

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/ngteco"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

var (
	errMissingTimestamp     = errors.New("punch has no timestamp fields")
	errUnparseableTimestamp = errors.New("punch timestamp could not be parsed")
)

// Zone-less ISO layouts seen in punch stores.
var localTimestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// GroupedAttendance holds calendar-day records keyed by "employee|date".
type GroupedAttendance map[string]attendance.AttendanceRecord

// GroupKey builds the grouping key for an employee and calendar date.
func GroupKey(employeeCode, date string) string {
	return employeeCode + "|" + date
}

// EmployeeCodes returns the distinct employee codes in sorted order.
func (g GroupedAttendance) EmployeeCodes() []string {
	seen := make(map[string]struct{})
	for _, rec := range g {
		seen[rec.EmployeeCode] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ResolvePunchClock returns the calendar date and HH:mm:ss clock of a punch
// in loc. Legacy NGTeco fields win over ISO timestamps; a UTC timestamp wins
// over a local one.
func ResolvePunchClock(p attendance.Punch, loc *time.Location) (string, string, error) {
	if p.AttDate != "" {
		date, clock, hasClock, ok := ngteco.ParseDateTime(p.AttDate)
		if !ok {
			return "", "", fmt.Errorf("att_date %q: %w", p.AttDate, errUnparseableTimestamp)
		}
		if !hasClock {
			if clock, ok = ngteco.ParseClock(p.AttendanceStatus); !ok {
				return "", "", fmt.Errorf("attendance_status %q: %w", p.AttendanceStatus, errUnparseableTimestamp)
			}
		}
		return date, clock, nil
	}

	var (
		t   time.Time
		err error
	)
	switch {
	case p.PunchTimestampUTC != "":
		t, err = parseTimestamp(p.PunchTimestampUTC, time.UTC)
	case p.PunchTime != "":
		t, err = parseTimestamp(p.PunchTime, loc)
	default:
		return "", "", errMissingTimestamp
	}
	if err != nil {
		return "", "", err
	}

	local := t.In(loc)
	return local.Format(dateLayout), local.Format(clockLayout), nil
}

// parseTimestamp accepts RFC3339 and zone-less layouts; the latter are
// read in defaultLoc.
func parseTimestamp(s string, defaultLoc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, ok := validator.IsValidDateTime(s); ok {
		return t, nil
	}
	for _, layout := range localTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, defaultLoc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", s, errUnparseableTimestamp)
}

// GroupPunches buckets punches by employee and calendar date in loc.
// Punches without a usable timestamp are skipped with a warning.
func GroupPunches(punches []attendance.EnrichedPunch, loc *time.Location) GroupedAttendance {
	grouped := make(GroupedAttendance)

	for _, p := range punches {
		date, clock, err := ResolvePunchClock(p.Punch, loc)
		if err != nil {
			slog.Warn("Skipping punch without usable timestamp",
				"punch_id", p.ID,
				"employee_id", p.EmployeeID,
				"error", err)
			continue
		}

		key := GroupKey(p.EmployeeID, date)
		rec, ok := grouped[key]
		if !ok {
			rec = attendance.AttendanceRecord{
				EmployeeCode:  p.EmployeeID,
				Date:          date,
				EmployeeName:  p.EmployeeName,
				Department:    p.Department,
				AccountHolder: p.AccountHolder,
				IBAN:          p.IBAN,
				BIC:           p.BIC,
			}
		}
		rec.Punches = append(rec.Punches, attendance.AttendancePunch{
			ID:        p.ID,
			PunchTime: clock,
			PunchFrom: p.PunchFrom,
			PunchDate: date,
			Ignored:   p.Ignored,
		})
		grouped[key] = rec
	}

	return grouped
}
