package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahtycare/sahty/internal/domain/appointment"
	"github.com/sahtycare/sahty/internal/service"
	"github.com/sahtycare/sahty/pkg/metrics"
)

type AppointmentHandler struct {
	svc       *service.AppointmentService
	collector *metrics.Collector
}

func NewAppointmentHandler(svc *service.AppointmentService, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, collector: collector}
}

type requestAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
}

type updateAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
}

type appointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toAppointmentResponse(a *appointment.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		Date:      a.Date,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
	}
}

func toAppointmentResponses(list []*appointment.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}

func (h *AppointmentHandler) Request(c *gin.Context) {
	var req requestAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	a, err := h.svc.Request(c.Request.Context(), claims, &appointment.RequestAppointmentCommand{
		DoctorID: req.DoctorID,
		Date:     req.Date,
	})
	if err != nil {
		if respondReferenceError(c, err) {
			return
		}
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues(string(appointment.StatusRequested)).Inc()
	h.collector.NotificationsEmitted.Inc()
	respondCreated(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Accept(c *gin.Context) {
	h.resolve(c, appointment.StatusAccepted)
}

func (h *AppointmentHandler) Refuse(c *gin.Context) {
	h.resolve(c, appointment.StatusRefused)
}

func (h *AppointmentHandler) resolve(c *gin.Context, target appointment.Status) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var (
		a   *appointment.Appointment
		err error
	)
	if target == appointment.StatusAccepted {
		a, err = h.svc.Accept(c.Request.Context(), claims, id)
	} else {
		a, err = h.svc.Refuse(c.Request.Context(), claims, id)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues(string(target)).Inc()
	h.collector.NotificationsEmitted.Inc()
	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	a, err := h.svc.Update(c.Request.Context(), claims, id, &appointment.UpdateAppointmentCommand{
		DoctorID: req.DoctorID,
		Date:     req.Date,
	})
	if err != nil {
		if respondReferenceError(c, err) {
			return
		}
		respondServiceError(c, err)
		return
	}
	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), claims, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": id})
}

// List is the doctor and admin view.
func (h *AppointmentHandler) List(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toAppointmentResponses(list))
}

// ListMine is the patient view.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	list, err := h.svc.ListMine(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toAppointmentResponses(list))
}
