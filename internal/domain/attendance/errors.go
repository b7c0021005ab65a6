package attendance

import "errors"

// Attendance domain errors
var (
	// Configuration errors
	ErrInvalidShiftStartHour     = errors.New("shift start hour must be between 0 and 23")
	ErrInvalidDuplicateThreshold = errors.New("duplicate punch threshold must not be negative")
	ErrInvalidTimezone           = errors.New("unknown timezone")

	// Ingest errors
	ErrEmptyPunchSource = errors.New("punch source contains no usable punches")

	// Streaming errors
	ErrStreamingUnsupported = errors.New("streaming is not supported by this connection")
)
