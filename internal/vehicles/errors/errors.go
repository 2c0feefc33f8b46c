package errors

import "errors"

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrDuplicatePlate  = errors.New("vehicle with this plate already registered")
)
