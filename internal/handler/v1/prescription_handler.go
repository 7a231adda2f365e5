package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahtycare/sahty/internal/domain/prescription"
	"github.com/sahtycare/sahty/internal/service"
	"github.com/sahtycare/sahty/pkg/metrics"
)

type PrescriptionHandler struct {
	svc       *service.PrescriptionService
	collector *metrics.Collector
}

func NewPrescriptionHandler(svc *service.PrescriptionService, collector *metrics.Collector) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc, collector: collector}
}

type createPrescriptionRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	PharmacistID uuid.UUID `json:"pharmacist_id" binding:"required"`
	MedicationID uuid.UUID `json:"medication_id" binding:"required"`
	DateIssued   time.Time `json:"date_issued" binding:"required"`
	Dosage       string    `json:"dosage" binding:"required"`
	Notes        string    `json:"notes"`
}

type updatePrescriptionRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	MedicationID uuid.UUID `json:"medication_id" binding:"required"`
	DateIssued   time.Time `json:"date_issued" binding:"required"`
	Dosage       string    `json:"dosage" binding:"required"`
	Notes        string    `json:"notes"`
	Status       string    `json:"status" binding:"required"`
}

type prescriptionResponse struct {
	ID           uuid.UUID `json:"id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	PatientID    uuid.UUID `json:"patient_id"`
	PharmacistID uuid.UUID `json:"pharmacist_id"`
	MedicationID uuid.UUID `json:"medication_id"`
	DateIssued   time.Time `json:"date_issued"`
	Dosage       string    `json:"dosage"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toPrescriptionResponse(p *prescription.Prescription) prescriptionResponse {
	return prescriptionResponse{
		ID:           p.ID,
		DoctorID:     p.DoctorID,
		PatientID:    p.PatientID,
		PharmacistID: p.PharmacistID,
		MedicationID: p.MedicationID,
		DateIssued:   p.DateIssued,
		Dosage:       p.Dosage,
		Notes:        p.Notes,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

func toPrescriptionResponses(list []*prescription.Prescription) []prescriptionResponse {
	out := make([]prescriptionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPrescriptionResponse(p))
	}
	return out
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	var req createPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), claims, &prescription.CreatePrescriptionCommand{
		PatientID:    req.PatientID,
		PharmacistID: req.PharmacistID,
		MedicationID: req.MedicationID,
		DateIssued:   req.DateIssued,
		Dosage:       req.Dosage,
		Notes:        req.Notes,
	})
	if err != nil {
		if respondReferenceError(c, err) {
			return
		}
		respondServiceError(c, err)
		return
	}

	h.collector.PrescriptionsTotal.WithLabelValues(string(prescription.StatusPending)).Inc()
	h.collector.NotificationsEmitted.Inc()
	respondCreated(c, toPrescriptionResponse(p))
}

func (h *PrescriptionHandler) Accept(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	p, err := h.svc.Accept(c.Request.Context(), claims, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.PrescriptionsTotal.WithLabelValues(string(prescription.StatusAccepted)).Inc()
	h.collector.NotificationsEmitted.Add(2)
	respondOK(c, toPrescriptionResponse(p))
}

func (h *PrescriptionHandler) Refuse(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	p, err := h.svc.Refuse(c.Request.Context(), claims, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.PrescriptionsTotal.WithLabelValues(string(prescription.StatusRefused)).Inc()
	h.collector.NotificationsEmitted.Inc()
	respondOK(c, toPrescriptionResponse(p))
}

func (h *PrescriptionHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	p, err := h.svc.Update(c.Request.Context(), claims, id, &prescription.UpdatePrescriptionCommand{
		PatientID:    req.PatientID,
		MedicationID: req.MedicationID,
		DateIssued:   req.DateIssued,
		Dosage:       req.Dosage,
		Notes:        req.Notes,
		Status:       req.Status,
	})
	if err != nil {
		if respondReferenceError(c, err) {
			return
		}
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPrescriptionResponse(p))
}

func (h *PrescriptionHandler) Delete(c *gin.Context) {
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

// List is the doctor, pharmacist and admin view.
func (h *PrescriptionHandler) List(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPrescriptionResponses(list))
}

// ListMine is the patient view.
func (h *PrescriptionHandler) ListMine(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	list, err := h.svc.ListMine(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPrescriptionResponses(list))
}
