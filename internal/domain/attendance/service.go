package attendance

import (
	"context"
	"io"
)

// AttendanceService reconstructs shift-day attendance from stored punches
type AttendanceService interface {
	// ListRecords computes processed records for the query range and applies its filters
	ListRecords(ctx context.Context, query RecordQuery) (ListRecordsResponse, error)

	// Summarize aggregates the filtered records per employee
	Summarize(ctx context.Context, query RecordQuery) ([]EmployeeSummary, error)

	// Export writes the filtered records and summaries as an XLSX timesheet
	Export(ctx context.Context, query RecordQuery, w io.Writer) error

	// IngestPunches normalizes a raw punch source (any supported JSON shape) and stores it
	IngestPunches(ctx context.Context, raw []byte) (IngestResponse, error)

	// LiveSnapshot returns the records of the current and previous shift-day
	LiveSnapshot(ctx context.Context) ([]ProcessedAttendanceRecord, error)
}
