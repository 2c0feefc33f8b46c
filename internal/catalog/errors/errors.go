package errors

import "errors"

var (
	ErrSiteNotFound = errors.New("site not found")

	ErrSlotNotFound = errors.New("slot not found")
)
