package employee

import "errors"

var (
	ErrEmployeeCodeRequired = errors.New("employee code is required")
)
