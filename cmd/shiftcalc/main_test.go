package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const cliPunches = `[
	{"id": "n1", "employeeId": "E1", "punchTimestampUTC": "2024-03-14T23:50:00Z", "punch_from": "A"},
	{"id": "n2", "employeeId": "E1", "punchTimestampUTC": "2024-03-15T00:10:00Z", "punch_from": "A"},
	{"id": "g1", "employeeId": "E2", "punchTimestampUTC": "2024-03-14T09:00:00Z", "punch_from": "A"},
	{"id": "g2", "employeeId": "E2", "punchTimestampUTC": "2024-03-14T17:00:00Z", "punch_from": "B"},
	{"id": "l1", "employeeId": "E3", "att_date": "15.03.2024", "attendance_status": "09:00", "punch_from": "C"}
]`

const cliEmployees = `
- employee_code: E1
  full_name: Ada Lovelace
  department: Night
- employee_code: E2
  full_name: Grace Hopper
  department: Ops
`

const cliConfig = `
shift_start_hour: 6
duplicate_punch_threshold_minutes: 10
data_timezone: UTC
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCompute_JSON(t *testing.T) {
	out, err := execute(t, "compute",
		"--punches", writeFixture(t, "punches.json", cliPunches),
		"--employees", writeFixture(t, "employees.yaml", cliEmployees),
		"--config", writeFixture(t, "shift.yaml", cliConfig),
		"--from", "2024-03-14",
		"--to", "2024-03-15",
		"--now", "2024-03-15T13:00:00Z",
	)
	require.NoError(t, err)

	var result computeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, attendance.ShiftConfig{ShiftStartHour: 6, DuplicatePunchThresholdMinutes: 10}, result.Config)
	require.Len(t, result.Records, 3)
	assert.Equal(t, "Ada Lovelace", result.Records[0].EmployeeName)
	assert.Equal(t, attendance.StatusComplete, result.Records[0].Status)
	assert.InDelta(t, 8.0, result.Records[1].TotalHours, 1e-9)
	assert.Equal(t, attendance.StatusWorking, result.Records[2].Status)
	assert.Empty(t, result.Records[2].EmployeeName, "E3 is not in the directory")
	require.Len(t, result.Summary, 3)
}

func TestCompute_Filters(t *testing.T) {
	out, err := execute(t, "compute",
		"--punches", writeFixture(t, "punches.json", cliPunches),
		"--employees", writeFixture(t, "employees.yaml", cliEmployees),
		"--config", writeFixture(t, "shift.yaml", cliConfig),
		"--from", "2024-03-14",
		"--to", "2024-03-15",
		"--now", "2024-03-15T13:00:00Z",
		"--departments", "ops",
		"--devices", "B",
	)
	require.NoError(t, err)

	var result computeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Records, 1)
	assert.Equal(t, "E2", result.Records[0].EmployeeCode)
	assert.Equal(t, attendance.StatusMissed, result.Records[0].Status)
}

func TestCompute_XLSX(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "timesheet.xlsx")
	_, err := execute(t, "compute",
		"--punches", writeFixture(t, "punches.json", cliPunches),
		"--config", writeFixture(t, "shift.yaml", cliConfig),
		"--from", "2024-03-14",
		"--to", "2024-03-15",
		"--format", "xlsx",
		"--out", outPath,
	)
	require.NoError(t, err)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{attendanceService.RecordsSheet, attendanceService.SummarySheet}, f.GetSheetList())
}

func TestCompute_Errors(t *testing.T) {
	punches := writeFixture(t, "punches.json", cliPunches)

	cases := []struct {
		name string
		args []string
	}{
		{"missing range", []string{"compute", "--punches", punches}},
		{"bad date", []string{"compute", "--punches", punches, "--from", "14.03.2024", "--to", "2024-03-15"}},
		{"bad format", []string{"compute", "--punches", punches, "--from", "2024-03-14", "--to", "2024-03-15", "--format", "csv"}},
		{"bad status", []string{"compute", "--punches", punches, "--from", "2024-03-14", "--to", "2024-03-15", "--status", "late"}},
		{"missing file", []string{"compute", "--punches", filepath.Join(t.TempDir(), "nope.json"), "--from", "2024-03-14", "--to", "2024-03-15"}},
		{"bad config", []string{"compute", "--punches", punches, "--from", "2024-03-14", "--to", "2024-03-15",
			"--config", writeFixture(t, "bad.yaml", "shift_start_hour: 30\n")}},
		{"unknown config key", []string{"compute", "--punches", punches, "--from", "2024-03-14", "--to", "2024-03-15",
			"--config", writeFixture(t, "typo.yaml", "shift_start: 4\n")}},
		{"bad timezone", []string{"compute", "--punches", punches, "--from", "2024-03-14", "--to", "2024-03-15",
			"--config", writeFixture(t, "tz.yaml", "data_timezone: Mars/Olympus\n")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := execute(t, c.args...)
			assert.Error(t, err)
		})
	}
}

func TestImport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "attendance.db")

	out, err := execute(t, "import",
		"--punches", writeFixture(t, "punches.json", cliPunches),
		"--employees", writeFixture(t, "employees.yaml", cliEmployees),
		"--config", writeFixture(t, "shift.yaml", cliConfig),
		"--sqlite", dbPath,
	)
	require.NoError(t, err)
	assert.Equal(t, "received=5 stored=5 skipped=0 employees=2\n", out)

	db, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	punches, err := sqlite.NewPunchRepository(db).ListPunches(context.Background(), "2024-03-14", "2024-03-15")
	require.NoError(t, err)
	assert.Len(t, punches, 5)

	employees, err := sqlite.NewEmployeeRepository(db).ListEmployees(context.Background())
	require.NoError(t, err)
	assert.Len(t, employees, 2)
}

func TestImport_EmptySource(t *testing.T) {
	_, err := execute(t, "import",
		"--punches", writeFixture(t, "punches.json", `{"data": []}`),
		"--sqlite", filepath.Join(t.TempDir(), "attendance.db"),
	)
	assert.ErrorIs(t, err, attendance.ErrEmptyPunchSource)
}
