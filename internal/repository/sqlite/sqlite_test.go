package sqlite

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPunchRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPunchRepository(openTestDB(t))

	stored, err := repo.SavePunches(ctx, []attendance.DatedPunch{
		{Punch: attendance.Punch{ID: "p2", EmployeeID: "E1", PunchTimestampUTC: "2024-03-14T17:00:00Z", PunchFrom: "A"}, Date: "2024-03-14"},
		{Punch: attendance.Punch{ID: "p1", EmployeeID: "E1", PunchTimestampUTC: "2024-03-14T09:00:00Z", PunchFrom: "A"}, Date: "2024-03-14"},
		{Punch: attendance.Punch{ID: "p3", EmployeeID: "E2", AttDate: "16.03.2024", AttendanceStatus: "08:00", PunchFrom: "B", Ignored: true}, Date: "2024-03-16"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stored)

	punches, err := repo.ListPunches(ctx, "2024-03-14", "2024-03-15")
	require.NoError(t, err)
	require.Len(t, punches, 2)
	assert.Equal(t, attendance.Punch{ID: "p1", EmployeeID: "E1", PunchTimestampUTC: "2024-03-14T09:00:00Z", PunchFrom: "A"}, punches[0])
	assert.Equal(t, "p2", punches[1].ID)

	legacy, err := repo.ListPunches(ctx, "2024-03-16", "2024-03-16")
	require.NoError(t, err)
	require.Len(t, legacy, 1)
	assert.True(t, legacy[0].Ignored)
	assert.Equal(t, "16.03.2024", legacy[0].AttDate)
	assert.Equal(t, "08:00", legacy[0].AttendanceStatus)

	// Re-saving the same ID overwrites it.
	_, err = repo.SavePunches(ctx, []attendance.DatedPunch{
		{Punch: attendance.Punch{ID: "p1", EmployeeID: "E1", PunchTimestampUTC: "2024-03-14T09:05:00Z", PunchFrom: "B"}, Date: "2024-03-14"},
	})
	require.NoError(t, err)

	punches, err = repo.ListPunches(ctx, "2024-03-14", "2024-03-14")
	require.NoError(t, err)
	require.Len(t, punches, 2)
	assert.Equal(t, "B", punches[0].PunchFrom)
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(openTestDB(t))
	holder := "A. Lovelace"

	stored, err := repo.SaveEmployees(ctx, []employee.Employee{
		{EmployeeCode: "E2", FullName: "Grace Hopper", Department: "Ops"},
		{EmployeeCode: "E1", FullName: "Ada Lovelace", BankAccountHolderName: &holder, IBAN: "DE89370400440532013000"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	employees, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "E1", employees[0].EmployeeCode)
	require.NotNil(t, employees[0].BankAccountHolderName)
	assert.Equal(t, holder, *employees[0].BankAccountHolderName)
	assert.Equal(t, employee.EmploymentStatusActive, employees[0].EmploymentStatus)
	assert.Nil(t, employees[1].BankAccountHolderName)

	_, err = repo.SaveEmployees(ctx, []employee.Employee{{EmployeeCode: "E3"}, {FullName: "No Code"}})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeRequired)

	employees, err = repo.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 2, "failed batch is rolled back")
}
