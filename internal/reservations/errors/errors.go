package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	// ErrStateChanged means a conditional write matched no document because the
	// reservation left the expected state between read and write.
	ErrStateChanged = errors.New("reservation state changed concurrently")

	ErrInvalidTimeRange = errors.New("end time must be after start time")
)
