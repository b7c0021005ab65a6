package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	db *DB
}

func NewEmployeeRepository(db *DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// ListEmployees implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	query := `
		SELECT employee_code, full_name, department, position, bank_account_holder_name,
			iban, bic, employment_status
		FROM employees
		ORDER BY employee_code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var (
			emp    employee.Employee
			holder sql.NullString
		)
		if err := rows.Scan(
			&emp.EmployeeCode, &emp.FullName, &emp.Department, &emp.Position, &holder,
			&emp.IBAN, &emp.BIC, &emp.EmploymentStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if holder.Valid {
			emp.BankAccountHolderName = &holder.String
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// SaveEmployees implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SaveEmployees(ctx context.Context, employees []employee.Employee) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	query := `
		INSERT INTO employees (
			employee_code, full_name, department, position, bank_account_holder_name,
			iban, bic, employment_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_code) DO UPDATE SET
			full_name = excluded.full_name,
			department = excluded.department,
			position = excluded.position,
			bank_account_holder_name = excluded.bank_account_holder_name,
			iban = excluded.iban,
			bic = excluded.bic,
			employment_status = excluded.employment_status
	`

	stored := 0
	err := r.db.withTx(func(tx *sql.Tx) error {
		for _, emp := range employees {
			if emp.EmployeeCode == "" {
				return employee.ErrEmployeeCodeRequired
			}
			status := emp.EmploymentStatus
			if status == "" {
				status = employee.EmploymentStatusActive
			}
			if _, err := tx.ExecContext(ctx, query,
				emp.EmployeeCode, emp.FullName, emp.Department, emp.Position, emp.BankAccountHolderName,
				emp.IBAN, emp.BIC, status,
			); err != nil {
				return fmt.Errorf("failed to upsert employee %s: %w", emp.EmployeeCode, err)
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
