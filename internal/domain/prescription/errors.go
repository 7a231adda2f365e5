package prescription

import "errors"

var (
	ErrPrescriptionNotFound    = errors.New("prescription not found")
	ErrInvalidStatus           = errors.New("unknown prescription status")
	ErrInvalidStatusTransition = errors.New("invalid prescription status transition")
)
