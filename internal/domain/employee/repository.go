package employee

import "context"

type EmployeeRepository interface {
	// ListEmployees returns the directory ordered by employee code.
	ListEmployees(ctx context.Context) ([]Employee, error)

	// SaveEmployees upserts directory entries by employee code.
	SaveEmployees(ctx context.Context, employees []Employee) (int, error)
}
