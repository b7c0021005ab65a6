package employee

// Employee is a directory entry used to enrich punches with display and
// payment fields. Payment fields are carried as plain data.
type Employee struct {
	EmployeeCode          string           `json:"employee_code" yaml:"employee_code"`
	FullName              string           `json:"full_name" yaml:"full_name"`
	Department            string           `json:"department" yaml:"department"`
	Position              string           `json:"position,omitempty" yaml:"position"`
	BankAccountHolderName *string          `json:"bank_account_holder_name,omitempty" yaml:"bank_account_holder_name"`
	IBAN                  string           `json:"iban,omitempty" yaml:"iban"`
	BIC                   string           `json:"bic,omitempty" yaml:"bic"`
	EmploymentStatus      EmploymentStatus `json:"employment_status,omitempty" yaml:"employment_status"`
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
