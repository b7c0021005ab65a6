package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

type punchRepositoryImpl struct {
	db *DB
}

func NewPunchRepository(db *DB) attendance.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

// ListPunches implements attendance.PunchRepository.
func (r *punchRepositoryImpl) ListPunches(ctx context.Context, from string, to string) ([]attendance.Punch, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	query := `
		SELECT id, employee_id, punch_time, punch_timestamp_utc, att_date, attendance_status, punch_from, ignored
		FROM punches
		WHERE punch_date BETWEEN ? AND ?
		ORDER BY punch_date, id
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	punches := make([]attendance.Punch, 0)
	for rows.Next() {
		var p attendance.Punch
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.PunchTime, &p.PunchTimestampUTC,
			&p.AttDate, &p.AttendanceStatus, &p.PunchFrom, &p.Ignored,
		); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return punches, nil
}

// SavePunches implements attendance.PunchRepository.
func (r *punchRepositoryImpl) SavePunches(ctx context.Context, punches []attendance.DatedPunch) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	query := `
		INSERT INTO punches (
			id, employee_id, punch_date, punch_time, punch_timestamp_utc,
			att_date, attendance_status, punch_from, ignored, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			punch_date = excluded.punch_date,
			punch_time = excluded.punch_time,
			punch_timestamp_utc = excluded.punch_timestamp_utc,
			att_date = excluded.att_date,
			attendance_status = excluded.attendance_status,
			punch_from = excluded.punch_from,
			ignored = excluded.ignored,
			updated_at = excluded.updated_at
	`

	stored := 0
	err := r.db.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare punch upsert: %w", err)
		}
		defer stmt.Close()

		for _, p := range punches {
			if _, err := stmt.ExecContext(ctx,
				p.ID, p.EmployeeID, p.Date, p.PunchTime, p.PunchTimestampUTC,
				p.AttDate, p.AttendanceStatus, p.PunchFrom, p.Ignored,
			); err != nil {
				return fmt.Errorf("failed to upsert punch %s: %w", p.ID, err)
			}
			stored++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return stored, nil
}
