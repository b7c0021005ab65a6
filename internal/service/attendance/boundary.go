package attendance

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// ResolveShiftDays re-buckets calendar-day records into shift-days. The
// bucket for (employee, D) holds the punches of D at or after cutoff plus
// the punches of D+1 before cutoff. Empty buckets are not emitted. Output is
// ordered by date, then employee code.
func ResolveShiftDays(grouped GroupedAttendance, startDate, endDate string, cutoff int) []attendance.AttendanceRecord {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		slog.Warn("Invalid start date, no shift-days resolved", "start_date", startDate, "error", err)
		return []attendance.AttendanceRecord{}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		slog.Warn("Invalid end date, no shift-days resolved", "end_date", endDate, "error", err)
		return []attendance.AttendanceRecord{}
	}

	codes := grouped.EmployeeCodes()
	records := make([]attendance.AttendanceRecord, 0)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		next := day.AddDate(0, 0, 1).Format(dateLayout)

		for _, code := range codes {
			current, hasCurrent := grouped[GroupKey(code, date)]
			following, hasFollowing := grouped[GroupKey(code, next)]
			if !hasCurrent && !hasFollowing {
				continue
			}

			var punches []attendance.AttendancePunch
			for _, p := range current.Punches {
				if punchHour(p) >= cutoff {
					punches = append(punches, p)
				}
			}
			for _, p := range following.Punches {
				if punchHour(p) < cutoff {
					punches = append(punches, p)
				}
			}
			if len(punches) == 0 {
				continue
			}

			source := current
			if !hasCurrent {
				source = following
			}
			records = append(records, attendance.AttendanceRecord{
				EmployeeCode:  code,
				Date:          date,
				Punches:       punches,
				EmployeeName:  source.EmployeeName,
				Department:    source.Department,
				AccountHolder: source.AccountHolder,
				IBAN:          source.IBAN,
				BIC:           source.BIC,
			})
		}
	}

	return records
}
