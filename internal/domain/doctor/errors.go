package doctor

import "errors"

var (
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrEmailInUse       = errors.New("email already used by another doctor")
	ErrDoctorReferenced = errors.New("doctor has appointments or prescriptions")
)
