package medication

import "errors"

var (
	ErrMedicationNotFound   = errors.New("medication not found")
	ErrNegativeStock        = errors.New("medication stock cannot be negative")
	ErrMedicationReferenced = errors.New("medication is referenced by prescriptions")
)
