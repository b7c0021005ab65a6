package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// FilterDuplicatePunches drops accidental repeat punches. Input must be in
// shift order. The first punch is always kept; a later punch is dropped when
// it lies strictly within thresholdMinutes of an already kept punch from the
// same device. Punches from different devices never collapse.
func FilterDuplicatePunches(punches []attendance.AttendancePunch, cutoff int, thresholdMinutes int) []attendance.AttendancePunch {
	if len(punches) == 0 {
		return []attendance.AttendancePunch{}
	}

	threshold := float64(thresholdMinutes)
	kept := []attendance.AttendancePunch{punches[0]}

	for _, p := range punches[1:] {
		duplicate := false
		for _, k := range kept {
			if k.PunchFrom != p.PunchFrom {
				continue
			}
			if minutesBetween(k, p, cutoff) < threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, p)
		}
	}

	return kept
}

// minutesBetween is the absolute distance of two punches in minutes. Dated
// punches compare by date and clock; otherwise the cutoff heuristic supplies
// the cross-midnight offset.
func minutesBetween(a, b attendance.AttendancePunch, cutoff int) float64 {
	if a.PunchDate != "" && b.PunchDate != "" {
		ta, errA := time.Parse(dateTimeLayout, a.PunchDate+" "+a.PunchTime)
		tb, errB := time.Parse(dateTimeLayout, b.PunchDate+" "+b.PunchTime)
		if errA == nil && errB == nil {
			return math.Abs(tb.Sub(ta).Minutes())
		}
	}
	return math.Abs(float64(shiftSeconds(b, cutoff)-shiftSeconds(a, cutoff))) / 60
}
