package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/appointment"
	"github.com/sahtycare/sahty/internal/domain/doctor"
	"github.com/sahtycare/sahty/internal/domain/medication"
	"github.com/sahtycare/sahty/internal/domain/notification"
	"github.com/sahtycare/sahty/internal/domain/patient"
	"github.com/sahtycare/sahty/internal/domain/pharmacist"
	"github.com/sahtycare/sahty/internal/domain/prescription"
	"github.com/sahtycare/sahty/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, pharmacist.ErrPharmacistNotFound),
		errors.Is(err, medication.ErrMedicationNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, prescription.ErrPrescriptionNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, doctor.ErrEmailInUse),
		errors.Is(err, patient.ErrEmailInUse),
		errors.Is(err, pharmacist.ErrEmailInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, doctor.ErrDoctorReferenced),
		errors.Is(err, patient.ErrPatientReferenced),
		errors.Is(err, pharmacist.ErrPharmacistReferenced),
		errors.Is(err, medication.ErrMedicationReferenced):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  "DEPENDENCY_CONFLICT",
		})

	case errors.Is(err, service.ErrUnknownRole),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrAdminCreateRestricted),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrNotModifiable),
		errors.Is(err, prescription.ErrInvalidStatus),
		errors.Is(err, prescription.ErrInvalidStatusTransition),
		errors.Is(err, medication.ErrNegativeStock):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// respondReferenceError handles create/update paths where a referenced
// entity is missing: the request body named it, so the miss is the
// caller's error, not an absent resource.
func respondReferenceError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, pharmacist.ErrPharmacistNotFound),
		errors.Is(err, medication.ErrMedicationNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return true
	}
	return false
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// currentClaims returns the claims placed by the auth middleware. A
// missing value means the route was wired without RequireAuth.
func currentClaims(c *gin.Context) (*domain.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	claims, ok := v.(*domain.Claims)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return claims, true
}
