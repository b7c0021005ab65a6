package attendance

import (
	"math"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// IsPreviousDayCheckout reports whether the record is a lone punch before the
// shift start hour: a stray check-out of the previous shift-day that earns
// no hours on its own.
func IsPreviousDayCheckout(rec attendance.AttendanceRecord, cfg attendance.ShiftConfig) bool {
	punches := activePunches(rec.Punches)
	if len(punches) != 1 {
		return false
	}
	hour := punchHour(punches[0])
	return hour >= 0 && hour < cfg.ShiftStartHour
}

// effectivePunches returns the record's active punches in shift order with
// duplicates removed.
func effectivePunches(rec attendance.AttendanceRecord, cfg attendance.ShiftConfig) []attendance.AttendancePunch {
	sorted := SortPunches(activePunches(rec.Punches), cfg.ShiftStartHour)
	return FilterDuplicatePunches(sorted, cfg.ShiftStartHour, cfg.DuplicatePunchThresholdMinutes)
}

// RecordSessions returns the sessions the record's hours are computed from.
func RecordSessions(rec attendance.AttendanceRecord, opts Options) []attendance.Session {
	if IsPreviousDayCheckout(rec, opts.Config) {
		return []attendance.Session{}
	}
	return DetectSessions(effectivePunches(rec, opts.Config), rec.Date, opts)
}

func sumHours(sessions []attendance.Session) float64 {
	total := 0.0
	for _, s := range sessions {
		total += s.Hours()
	}
	return total
}

// CalculateAttendanceHours returns the worked hours of a record. A
// precomputed value is returned unchanged. A lone punch counts up to now
// while its shift-day is today and zero once it has passed.
func CalculateAttendanceHours(rec attendance.AttendanceRecord, opts Options) float64 {
	if rec.PrecomputedHours != nil {
		return math.Max(0, *rec.PrecomputedHours)
	}
	if IsPreviousDayCheckout(rec, opts.Config) {
		return 0
	}
	return sumHours(RecordSessions(rec, opts))
}

// CalculateAttendanceHoursPerDevice splits totalHours across the devices of a
// record.
//
// One device gets everything. Two punches on two devices credit the check-in
// device with all hours and the check-out device with zero. Otherwise each
// session is walked as runs of consecutive same-device punches; a run lasts
// until the next run starts, the last one until the session ends.
func CalculateAttendanceHoursPerDevice(rec attendance.AttendanceRecord, totalHours float64, opts Options) []attendance.Shift {
	shifts := []attendance.Shift{}
	if IsPreviousDayCheckout(rec, opts.Config) {
		return shifts
	}

	punches := SortPunches(activePunches(rec.Punches), opts.Config.ShiftStartHour)
	if len(punches) == 0 {
		return shifts
	}

	devices := distinctDevices(punches)
	if len(devices) == 1 {
		return append(shifts, attendance.Shift{
			Device:  devices[0],
			Hours:   totalHours,
			Punches: punches,
		})
	}

	if len(punches) == 2 {
		return append(shifts,
			attendance.Shift{Device: punches[0].PunchFrom, Hours: totalHours, Punches: punches[:1:1]},
			attendance.Shift{Device: punches[1].PunchFrom, Hours: 0, Punches: punches[1:2:2]},
		)
	}

	filtered := FilterDuplicatePunches(punches, opts.Config.ShiftStartHour, opts.Config.DuplicatePunchThresholdMinutes)
	sessions := DetectSessions(filtered, rec.Date, opts)
	points := timePunches(filtered, rec.Date, opts)

	hours := make(map[string]float64)
	contributed := make(map[string][]attendance.AttendancePunch)
	var order []string

	for _, s := range sessions {
		var in []timedPunch
		for _, p := range points {
			if !p.at.Before(s.Start) && !p.at.After(s.End) {
				in = append(in, p)
			}
		}

		for i := 0; i < len(in); {
			device := in[i].punch.PunchFrom
			j := i
			for j < len(in) && in[j].punch.PunchFrom == device {
				j++
			}
			runEnd := s.End
			if j < len(in) {
				runEnd = in[j].at
			}

			if _, seen := contributed[device]; !seen {
				order = append(order, device)
			}
			hours[device] += math.Max(0, runEnd.Sub(in[i].at).Hours())
			for _, p := range in[i:j] {
				contributed[device] = append(contributed[device], p.punch)
			}
			i = j
		}
	}

	for _, device := range order {
		shifts = append(shifts, attendance.Shift{
			Device:  device,
			Hours:   hours[device],
			Punches: contributed[device],
		})
	}
	return shifts
}

func distinctDevices(punches []attendance.AttendancePunch) []string {
	seen := make(map[string]struct{})
	var devices []string
	for _, p := range punches {
		if _, ok := seen[p.PunchFrom]; ok {
			continue
		}
		seen[p.PunchFrom] = struct{}{}
		devices = append(devices, p.PunchFrom)
	}
	return devices
}

// ClassifyRecord labels a record working, missed or complete. Records with
// two or more effective punches are complete; a lone punch is working while
// its session is still open and missed otherwise.
func ClassifyRecord(rec attendance.AttendanceRecord, opts Options) attendance.RecordStatus {
	punches := effectivePunches(rec, opts.Config)
	if len(punches) >= 2 {
		return attendance.StatusComplete
	}
	if len(punches) == 1 && !IsPreviousDayCheckout(rec, opts.Config) {
		for _, s := range DetectSessions(punches, rec.Date, opts) {
			if s.Open {
				return attendance.StatusWorking
			}
		}
	}
	return attendance.StatusMissed
}

// ProcessRecord computes hours, device shifts, sessions and status for one
// shift-day record. The input record is not modified.
func ProcessRecord(rec attendance.AttendanceRecord, opts Options) attendance.ProcessedAttendanceRecord {
	rec.Punches = SortPunches(rec.Punches, opts.Config.ShiftStartHour)

	total := CalculateAttendanceHours(rec, opts)
	return attendance.ProcessedAttendanceRecord{
		AttendanceRecord:      rec,
		Shifts:                CalculateAttendanceHoursPerDevice(rec, total, opts),
		TotalHours:            total,
		Sessions:              RecordSessions(rec, opts),
		Status:                ClassifyRecord(rec, opts),
		IsPreviousDayCheckout: IsPreviousDayCheckout(rec, opts.Config),
	}
}
