package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrNotModifiable           = errors.New("appointment cannot be modified once it is accepted or refused")
)
