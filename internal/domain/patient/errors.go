package patient

import "errors"

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrEmailInUse        = errors.New("email already used by another patient")
	ErrPatientReferenced = errors.New("patient has appointments or prescriptions")
)
