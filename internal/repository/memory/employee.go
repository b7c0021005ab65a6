package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository(seed ...employee.Employee) employee.EmployeeRepository {
	r := &employeeRepositoryImpl{
		employees: make(map[string]employee.Employee, len(seed)),
	}
	for _, emp := range seed {
		r.employees[emp.EmployeeCode] = emp
	}
	return r
}

// ListEmployees implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListEmployees(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employees := make([]employee.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		employees = append(employees, emp)
	}
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].EmployeeCode < employees[j].EmployeeCode
	})
	return employees, nil
}

// SaveEmployees implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SaveEmployees(_ context.Context, employees []employee.Employee) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, emp := range employees {
		if emp.EmployeeCode == "" {
			return 0, employee.ErrEmployeeCodeRequired
		}
	}
	for _, emp := range employees {
		r.employees[emp.EmployeeCode] = emp
	}
	return len(employees), nil
}
