package attendance

import (
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
)

// BuildRecords runs the reconstruction pipeline on one punch snapshot:
// normalize, enrich, group, resolve shift-days, then compute hours for every
// bucket in [startDate, endDate]. It performs no I/O and never fails; bad
// punches are skipped with a warning.
func BuildRecords(source any, employees []employee.Employee, startDate, endDate string, opts Options) []attendance.ProcessedAttendanceRecord {
	punches := NormalizePunches(source)
	enriched := EnrichPunches(punches, employees)
	grouped := GroupPunches(enriched, opts.DataLocation)
	buckets := ResolveShiftDays(grouped, startDate, endDate, opts.Config.ShiftStartHour)

	records := make([]attendance.ProcessedAttendanceRecord, 0, len(buckets))
	for _, rec := range buckets {
		records = append(records, ProcessRecord(rec, opts))
	}
	return records
}

// Run is BuildRecords followed by the downstream filters.
func Run(source any, employees []employee.Employee, startDate, endDate string, opts Options, filter attendance.RecordFilter) []attendance.ProcessedAttendanceRecord {
	records := BuildRecords(source, employees, startDate, endDate, opts)
	return ApplyFilters(records, filter, opts)
}
