package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

const (
	testToday     = "2024-03-15"
	testYesterday = "2024-03-14"
)

// testNow is 13:00 on testToday; all engine tests run against it.
var testNow = time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)

func testOptions() Options {
	return NewOptions(attendance.DefaultShiftConfig, time.UTC, time.UTC, testNow)
}

func dated(date, clock, device string) attendance.AttendancePunch {
	return attendance.AttendancePunch{
		ID:        date + "T" + clock + "@" + device,
		PunchTime: clock,
		PunchFrom: device,
		PunchDate: date,
	}
}

func undated(clock, device string) attendance.AttendancePunch {
	return attendance.AttendancePunch{
		ID:        clock + "@" + device,
		PunchTime: clock,
		PunchFrom: device,
	}
}

func record(code, date string, punches ...attendance.AttendancePunch) attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		EmployeeCode: code,
		Date:         date,
		Punches:      punches,
	}
}

func utcPunch(id, employee, device, timestamp string) attendance.Punch {
	return attendance.Punch{
		ID:                id,
		EmployeeID:        employee,
		PunchFrom:         device,
		PunchTimestampUTC: timestamp,
	}
}

func devicesOf(shifts []attendance.Shift) []string {
	out := make([]string, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, s.Device)
	}
	return out
}
