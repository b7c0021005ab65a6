package attendance

import (
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
)

// EnrichPunches joins punches with the employee directory by employee code.
// Unknown employees keep empty display fields.
func EnrichPunches(punches []attendance.Punch, employees []employee.Employee) []attendance.EnrichedPunch {
	directory := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		directory[emp.EmployeeCode] = emp
	}

	out := make([]attendance.EnrichedPunch, 0, len(punches))
	for _, p := range punches {
		enriched := attendance.EnrichedPunch{Punch: p}
		if emp, ok := directory[p.EmployeeID]; ok {
			enriched.EmployeeName = emp.FullName
			enriched.Department = emp.Department
			enriched.IBAN = emp.IBAN
			enriched.BIC = emp.BIC
			if emp.BankAccountHolderName != nil {
				enriched.AccountHolder = *emp.BankAccountHolderName
			}
		}
		out = append(out, enriched)
	}
	return out
}
