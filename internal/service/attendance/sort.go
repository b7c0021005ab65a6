package attendance

import (
	"sort"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// SortPunches returns the punches in shift order: clock times before cutoff
// are treated as next-day (+24h), so 23:50 sorts before 00:10. The input is
// not modified and equal keys keep their input order.
func SortPunches(punches []attendance.AttendancePunch, cutoff int) []attendance.AttendancePunch {
	sorted := make([]attendance.AttendancePunch, len(punches))
	copy(sorted, punches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return shiftSeconds(sorted[i], cutoff) < shiftSeconds(sorted[j], cutoff)
	})
	return sorted
}
