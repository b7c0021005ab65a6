package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineSource = `{
	"night-in":  {"employeeId": "E1", "punchTimestampUTC": "2024-03-14T23:50:00Z", "punch_from": "A"},
	"night-out": {"employeeId": "E1", "punchTimestampUTC": "2024-03-15T00:10:00Z", "punch_from": "A"},
	"gap-1":     {"employeeId": "E2", "punchTimestampUTC": "2024-03-14T09:00:00Z", "punch_from": "A"},
	"gap-2":     {"employeeId": "E2", "punchTimestampUTC": "2024-03-14T12:00:00Z", "punch_from": "B"},
	"gap-3":     {"employeeId": "E2", "punchTimestampUTC": "2024-03-14T12:20:00Z", "punch_from": "A"},
	"gap-4":     {"employeeId": "E2", "punchTimestampUTC": "2024-03-14T17:00:00Z", "punch_from": "B"},
	"legacy":    {"employeeId": "E3", "att_date": "15.03.2024", "attendance_status": "09:00", "punch_from": "C"},
	"skipped":   {"employeeId": "E3", "punch_from": "C", "ignored": true},
	"broken":    {"employeeId": "E3", "punch_from": "C"}
}`

var pipelineEmployees = []employee.Employee{
	{EmployeeCode: "E1", FullName: "Ada Lovelace", Department: "Night"},
	{EmployeeCode: "E2", FullName: "Grace Hopper", Department: "Ops"},
	{EmployeeCode: "E3", FullName: "Alan Turing", Department: "Ops"},
}

func TestBuildRecords(t *testing.T) {
	records := BuildRecords([]byte(pipelineSource), pipelineEmployees, testYesterday, testToday, testOptions())

	require.Len(t, records, 3)

	night := records[0]
	assert.Equal(t, "E1", night.EmployeeCode)
	assert.Equal(t, testYesterday, night.Date)
	assert.Equal(t, "Ada Lovelace", night.EmployeeName)
	assert.Equal(t, []string{"23:50:00", "00:10:00"}, clocks(night.Punches))
	assert.InDelta(t, 20.0/60, night.TotalHours, 1e-9)
	assert.Equal(t, attendance.StatusComplete, night.Status)

	gap := records[1]
	assert.Equal(t, "E2", gap.EmployeeCode)
	assert.Len(t, gap.Sessions, 2)
	assert.InDelta(t, 3.0+4.0+40.0/60, gap.TotalHours, 1e-9)
	assert.Equal(t, []string{"A", "B"}, devicesOf(gap.Shifts))

	live := records[2]
	assert.Equal(t, "E3", live.EmployeeCode)
	assert.Equal(t, testToday, live.Date)
	assert.InDelta(t, 4.0, live.TotalHours, 1e-9)
	assert.Equal(t, attendance.StatusWorking, live.Status)
}

func TestBuildRecords_Pure(t *testing.T) {
	source := []byte(pipelineSource)
	opts := testOptions()

	first := BuildRecords(source, pipelineEmployees, testYesterday, testToday, opts)
	second := BuildRecords(source, pipelineEmployees, testYesterday, testToday, opts)

	assert.Equal(t, first, second)
	assert.Equal(t, pipelineSource, string(source))
}

func TestBuildRecords_EmptyInputs(t *testing.T) {
	opts := testOptions()

	assert.Empty(t, BuildRecords(nil, nil, testYesterday, testToday, opts))
	assert.Empty(t, BuildRecords([]byte(pipelineSource), nil, "bogus", testToday, opts))

	records := BuildRecords([]byte(pipelineSource), nil, testYesterday, testToday, opts)
	require.NotEmpty(t, records)
	assert.Empty(t, records[0].EmployeeName, "missing directory leaves display fields empty")
}

func TestRun_Filters(t *testing.T) {
	opts := testOptions()

	working := Run([]byte(pipelineSource), pipelineEmployees, testYesterday, testToday, opts,
		attendance.RecordFilter{Status: attendance.StatusWorking})
	require.Len(t, working, 1)
	assert.Equal(t, "E3", working[0].EmployeeCode)

	ops := Run([]byte(pipelineSource), pipelineEmployees, testYesterday, testToday, opts,
		attendance.RecordFilter{Departments: []string{"Ops"}, Search: "hopper"})
	require.Len(t, ops, 1)
	assert.Equal(t, "E2", ops[0].EmployeeCode)

	onlyB := Run([]byte(pipelineSource), pipelineEmployees, testYesterday, testToday, opts,
		attendance.RecordFilter{Devices: []string{"B"}})
	require.Len(t, onlyB, 1)
	assert.Equal(t, "E2", onlyB[0].EmployeeCode)
	assert.InDelta(t, 5.0, onlyB[0].TotalHours, 1e-9)
}

func TestRun_ShiftStartHour(t *testing.T) {
	opts := testOptions()
	opts.Config.ShiftStartHour = 0

	records := Run([]byte(pipelineSource), pipelineEmployees, testYesterday, testToday, opts, attendance.RecordFilter{})

	var night []attendance.ProcessedAttendanceRecord
	for _, rec := range records {
		if rec.EmployeeCode == "E1" {
			night = append(night, rec)
		}
	}
	require.Len(t, night, 2, "midnight cutoff splits the night shift")
	assert.Equal(t, attendance.StatusMissed, night[0].Status)
	assert.Equal(t, testToday, night[1].Date)
	assert.Equal(t, attendance.StatusWorking, night[1].Status)
	assert.InDelta(t, 12.0+50.0/60, night[1].TotalHours, 1e-9)
}

func TestBuildRecords_DoubleTapAfterMidnightInDataTimezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	opts := NewOptions(attendance.DefaultShiftConfig, berlin, berlin, testNow)

	source := []attendance.Punch{
		{ID: "tap-1", EmployeeID: "E3", PunchTime: "2024-03-15T02:00:00", PunchFrom: "A"},
		{ID: "tap-2", EmployeeID: "E3", PunchTime: "2024-03-15T02:05:00", PunchFrom: "A"},
	}

	records := BuildRecords(source, pipelineEmployees, testYesterday, testToday, opts)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, testYesterday, rec.Date)
	assert.Equal(t, 0.0, rec.TotalHours)
	assert.Equal(t, attendance.StatusMissed, rec.Status)
	for _, shift := range rec.Shifts {
		assert.Equal(t, 0.0, shift.Hours, "device %s", shift.Device)
	}
}
