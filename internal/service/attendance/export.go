package attendance

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	RecordsSheet = "Attendance"
	SummarySheet = "Summary"
)

var (
	recordsHeader = []any{"Date", "Employee Code", "Employee Name", "Department", "Status", "Punches", "Devices", "Total Hours"}
	summaryHeader = []any{"Employee Code", "Employee Name", "Department", "Days", "Complete", "Missed", "Working", "Total Hours", "Devices"}
)

// WriteTimesheet renders records and their summaries as an XLSX workbook.
func WriteTimesheet(w io.Writer, records []attendance.ProcessedAttendanceRecord, summaries []attendance.EmployeeSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RecordsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	recordRows := make([][]any, 0, len(records))
	for _, rec := range records {
		recordRows = append(recordRows, []any{
			rec.Date,
			rec.EmployeeCode,
			rec.EmployeeName,
			rec.Department,
			string(rec.Status),
			formatPunches(rec.Punches),
			formatShifts(rec.Shifts),
			roundHours(rec.TotalHours),
		})
	}
	if err := writeSheet(f, RecordsSheet, recordsHeader, recordRows, headerStyle); err != nil {
		return err
	}

	summaryRows := make([][]any, 0, len(summaries))
	for _, s := range summaries {
		devices := make([]string, 0, len(s.Devices))
		for _, d := range s.Devices {
			devices = append(devices, d.Device+": "+d.Hours.StringFixed(hoursPrecision))
		}
		summaryRows = append(summaryRows, []any{
			s.EmployeeCode,
			s.EmployeeName,
			s.Department,
			s.Days,
			s.Complete,
			s.Missed,
			s.Working,
			s.TotalHours.InexactFloat64(),
			strings.Join(devices, ", "),
		})
	}
	if err := writeSheet(f, SummarySheet, summaryHeader, summaryRows, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	lastCol, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}

	return f.SetColWidth(sheet, "A", "I", 18)
}

func formatPunches(punches []attendance.AttendancePunch) string {
	parts := make([]string, 0, len(punches))
	for _, p := range punches {
		if p.Ignored {
			continue
		}
		parts = append(parts, p.PunchTime+"@"+p.PunchFrom)
	}
	return strings.Join(parts, ", ")
}

func formatShifts(shifts []attendance.Shift) string {
	parts := make([]string, 0, len(shifts))
	for _, s := range shifts {
		parts = append(parts, fmt.Sprintf("%s: %.2f", s.Device, roundHours(s.Hours)))
	}
	return strings.Join(parts, ", ")
}

func roundHours(h float64) float64 {
	return decimal.NewFromFloat(h).Round(hoursPrecision).InexactFloat64()
}
