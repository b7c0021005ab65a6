package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

// ListPunches implements attendance.PunchRepository.
func (p *punchRepositoryImpl) ListPunches(ctx context.Context, from string, to string) ([]attendance.Punch, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, employee_id, punch_time, punch_timestamp_utc, att_date, attendance_status, punch_from, ignored
		FROM punches
		WHERE punch_date BETWEEN $1::date AND $2::date
		ORDER BY punch_date, id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	punches := make([]attendance.Punch, 0)
	for rows.Next() {
		var punch attendance.Punch
		err := rows.Scan(
			&punch.ID, &punch.EmployeeID, &punch.PunchTime, &punch.PunchTimestampUTC,
			&punch.AttDate, &punch.AttendanceStatus, &punch.PunchFrom, &punch.Ignored,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, punch)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return punches, nil
}

// SavePunches implements attendance.PunchRepository.
func (p *punchRepositoryImpl) SavePunches(ctx context.Context, punches []attendance.DatedPunch) (int, error) {
	if len(punches) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO punches (
			id, employee_id, punch_date, punch_time, punch_timestamp_utc,
			att_date, attendance_status, punch_from, ignored
		) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			punch_date = EXCLUDED.punch_date,
			punch_time = EXCLUDED.punch_time,
			punch_timestamp_utc = EXCLUDED.punch_timestamp_utc,
			att_date = EXCLUDED.att_date,
			attendance_status = EXCLUDED.attendance_status,
			punch_from = EXCLUDED.punch_from,
			ignored = EXCLUDED.ignored,
			updated_at = NOW()
	`

	stored := 0
	err := WithTransaction(ctx, p.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, punch := range punches {
			batch.Queue(query,
				punch.ID, punch.EmployeeID, punch.Date, punch.PunchTime, punch.PunchTimestampUTC,
				punch.AttDate, punch.AttendanceStatus, punch.PunchFrom, punch.Ignored,
			)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for _, punch := range punches {
			tag, err := results.Exec()
			if err != nil {
				return fmt.Errorf("failed to upsert punch %s: %w", punch.ID, err)
			}
			stored += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return stored, nil
}
