package attendance

import (
	"sort"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// hoursPrecision is the number of decimal places reported in summaries.
const hoursPrecision = 2

// SummarizeRecords aggregates processed records per employee. Hours are
// summed exactly and rounded once at the end. Output is ordered by
// employee code; device totals keep first-appearance order.
func SummarizeRecords(records []attendance.ProcessedAttendanceRecord) []attendance.EmployeeSummary {
	type accumulator struct {
		summary     attendance.EmployeeSummary
		deviceOrder []string
		deviceHours map[string]decimal.Decimal
	}

	byCode := make(map[string]*accumulator)
	for _, rec := range records {
		acc, ok := byCode[rec.EmployeeCode]
		if !ok {
			acc = &accumulator{
				summary: attendance.EmployeeSummary{
					EmployeeCode: rec.EmployeeCode,
					EmployeeName: rec.EmployeeName,
					Department:   rec.Department,
					TotalHours:   decimal.Zero,
				},
				deviceHours: make(map[string]decimal.Decimal),
			}
			byCode[rec.EmployeeCode] = acc
		}

		acc.summary.Days++
		switch rec.Status {
		case attendance.StatusComplete:
			acc.summary.Complete++
		case attendance.StatusMissed:
			acc.summary.Missed++
		case attendance.StatusWorking:
			acc.summary.Working++
		}
		acc.summary.TotalHours = acc.summary.TotalHours.Add(decimal.NewFromFloat(rec.TotalHours))

		for _, shift := range rec.Shifts {
			if _, seen := acc.deviceHours[shift.Device]; !seen {
				acc.deviceOrder = append(acc.deviceOrder, shift.Device)
				acc.deviceHours[shift.Device] = decimal.Zero
			}
			acc.deviceHours[shift.Device] = acc.deviceHours[shift.Device].Add(decimal.NewFromFloat(shift.Hours))
		}
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	summaries := make([]attendance.EmployeeSummary, 0, len(codes))
	for _, code := range codes {
		acc := byCode[code]
		acc.summary.TotalHours = acc.summary.TotalHours.Round(hoursPrecision)
		acc.summary.Devices = make([]attendance.DeviceHours, 0, len(acc.deviceOrder))
		for _, device := range acc.deviceOrder {
			acc.summary.Devices = append(acc.summary.Devices, attendance.DeviceHours{
				Device: device,
				Hours:  acc.deviceHours[device].Round(hoursPrecision),
			})
		}
		summaries = append(summaries, acc.summary)
	}
	return summaries
}
