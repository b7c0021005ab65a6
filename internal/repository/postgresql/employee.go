package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// ListEmployees implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT employee_code, full_name, department, position, bank_account_holder_name,
			iban, bic, employment_status
		FROM employees
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var emp employee.Employee
		err := rows.Scan(
			&emp.EmployeeCode, &emp.FullName, &emp.Department, &emp.Position, &emp.BankAccountHolderName,
			&emp.IBAN, &emp.BIC, &emp.EmploymentStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// SaveEmployees implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SaveEmployees(ctx context.Context, employees []employee.Employee) (int, error) {
	for _, emp := range employees {
		if emp.EmployeeCode == "" {
			return 0, employee.ErrEmployeeCodeRequired
		}
	}

	query := `
		INSERT INTO employees (
			employee_code, full_name, department, position, bank_account_holder_name,
			iban, bic, employment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_code) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			department = EXCLUDED.department,
			position = EXCLUDED.position,
			bank_account_holder_name = EXCLUDED.bank_account_holder_name,
			iban = EXCLUDED.iban,
			bic = EXCLUDED.bic,
			employment_status = EXCLUDED.employment_status,
			updated_at = NOW()
	`

	stored := 0
	err := WithTransaction(ctx, e.db, func(tx pgx.Tx) error {
		for _, emp := range employees {
			status := emp.EmploymentStatus
			if status == "" {
				status = employee.EmploymentStatusActive
			}
			_, err := tx.Exec(ctx, query,
				emp.EmployeeCode, emp.FullName, emp.Department, emp.Position, emp.BankAccountHolderName,
				emp.IBAN, emp.BIC, string(status),
			)
			if err != nil {
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
