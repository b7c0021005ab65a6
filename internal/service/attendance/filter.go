package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

const (
	manualDevice   = "manual"
	qrDevicePrefix = "qr-"
)

// isSyntheticDevice reports devices that survive every allowlist.
func isSyntheticDevice(device string) bool {
	return device == manualDevice || strings.HasPrefix(device, qrDevicePrefix)
}

// FilterByDevices keeps only punches from the allowed devices (plus manual
// and qr- devices) and recomputes hours from what is left. Records left
// without punches are dropped. An empty allowlist disables the filter.
func FilterByDevices(records []attendance.ProcessedAttendanceRecord, devices []string, opts Options) []attendance.ProcessedAttendanceRecord {
	if len(devices) == 0 {
		return records
	}

	allowed := make(map[string]struct{}, len(devices))
	for _, d := range devices {
		allowed[d] = struct{}{}
	}

	out := make([]attendance.ProcessedAttendanceRecord, 0, len(records))
	for _, rec := range records {
		var punches []attendance.AttendancePunch
		for _, p := range rec.Punches {
			if _, ok := allowed[p.PunchFrom]; ok || isSyntheticDevice(p.PunchFrom) {
				punches = append(punches, p)
			}
		}
		if len(punches) == 0 {
			continue
		}

		base := rec.AttendanceRecord
		base.Punches = punches
		base.PrecomputedHours = nil
		out = append(out, ProcessRecord(base, opts))
	}
	return out
}

// FilterByDepartments keeps records whose department is listed. Matching is
// case-insensitive. An empty list disables the filter.
func FilterByDepartments(records []attendance.ProcessedAttendanceRecord, departments []string) []attendance.ProcessedAttendanceRecord {
	if len(departments) == 0 {
		return records
	}

	out := make([]attendance.ProcessedAttendanceRecord, 0, len(records))
	for _, rec := range records {
		for _, d := range departments {
			if strings.EqualFold(strings.TrimSpace(d), rec.Department) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// FilterByStatus keeps records with the given status. "" and "all" disable
// the filter.
func FilterByStatus(records []attendance.ProcessedAttendanceRecord, status attendance.RecordStatus) []attendance.ProcessedAttendanceRecord {
	if status == "" || status == attendance.StatusAll {
		return records
	}

	out := make([]attendance.ProcessedAttendanceRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}

// FilterBySearch keeps records whose employee name or code contains the
// keyword, ignoring case.
func FilterBySearch(records []attendance.ProcessedAttendanceRecord, keyword string) []attendance.ProcessedAttendanceRecord {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return records
	}

	out := make([]attendance.ProcessedAttendanceRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.EmployeeName), keyword) ||
			strings.Contains(strings.ToLower(rec.EmployeeCode), keyword) {
			out = append(out, rec)
		}
	}
	return out
}

// ApplyFilters runs the device, department, status and search filters in
// that order. Status is taken from the records after device recomputation.
func ApplyFilters(records []attendance.ProcessedAttendanceRecord, filter attendance.RecordFilter, opts Options) []attendance.ProcessedAttendanceRecord {
	records = FilterByDevices(records, filter.Devices, opts)
	records = FilterByDepartments(records, filter.Departments)
	records = FilterByStatus(records, filter.Status)
	return FilterBySearch(records, filter.Search)
}
