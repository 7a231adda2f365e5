package pharmacist

import "errors"

var (
	ErrPharmacistNotFound   = errors.New("pharmacist not found")
	ErrEmailInUse           = errors.New("email already used by another pharmacist")
	ErrPharmacistReferenced = errors.New("pharmacist has prescriptions")
)
