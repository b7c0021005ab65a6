package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrEmptyPunchSource):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidShiftStartHour),
		errors.Is(err, attendance.ErrInvalidDuplicateThreshold),
		errors.Is(err, attendance.ErrInvalidTimezone):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrStreamingUnsupported):
		InternalServerError(w, "Streaming not supported")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeCodeRequired):
		BadRequest(w, "Employee code is required", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
