package v1

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahtycare/sahty/internal/domain/doctor"
	"github.com/sahtycare/sahty/internal/domain/medication"
	"github.com/sahtycare/sahty/internal/domain/patient"
	"github.com/sahtycare/sahty/internal/domain/pharmacist"
	"github.com/sahtycare/sahty/internal/service"
	"github.com/sahtycare/sahty/pkg/metrics"
)

// CatalogHandler groups the profile and medication catalogs: doctors,
// patients and pharmacists are readable by authenticated users and
// editable by admins; medications are also editable by pharmacists.
type CatalogHandler struct {
	doctorSvc     *service.DoctorService
	patientSvc    *service.PatientService
	pharmacistSvc *service.PharmacistService
	medicationSvc *service.MedicationService
	collector     *metrics.Collector
}

func NewCatalogHandler(
	doctorSvc *service.DoctorService,
	patientSvc *service.PatientService,
	pharmacistSvc *service.PharmacistService,
	medicationSvc *service.MedicationService,
	collector *metrics.Collector,
) *CatalogHandler {
	return &CatalogHandler{
		doctorSvc:     doctorSvc,
		patientSvc:    patientSvc,
		pharmacistSvc: pharmacistSvc,
		medicationSvc: medicationSvc,
		collector:     collector,
	}
}

func (h *CatalogHandler) countGuardBlock(err error) {
	if errors.Is(err, doctor.ErrDoctorReferenced) ||
		errors.Is(err, patient.ErrPatientReferenced) ||
		errors.Is(err, pharmacist.ErrPharmacistReferenced) ||
		errors.Is(err, medication.ErrMedicationReferenced) {
		h.collector.DependencyGuardBlocks.Inc()
	}
}

// --- doctors ---

type doctorResponse struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	Speciality string    `json:"speciality"`
	Email      string    `json:"email"`
}

type updateDoctorRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Speciality string `json:"speciality" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
}

func toDoctorResponse(d *doctor.Doctor) doctorResponse {
	return doctorResponse{ID: d.ID, FullName: d.FullName, Speciality: d.Speciality, Email: d.Email}
}

func (h *CatalogHandler) ListDoctors(c *gin.Context) {
	list, err := h.doctorSvc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]doctorResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDoctorResponse(d))
	}
	respondOK(c, out)
}

func (h *CatalogHandler) GetDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.doctorSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toDoctorResponse(d))
}

func (h *CatalogHandler) UpdateDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	d, err := h.doctorSvc.Update(c.Request.Context(), id, &doctor.UpdateDoctorCommand{
		FullName:   req.FullName,
		Speciality: req.Speciality,
		Email:      req.Email,
	}, claims.UserID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toDoctorResponse(d))
}

func (h *CatalogHandler) DeleteDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.doctorSvc.Delete(c.Request.Context(), id, claims.UserID, c.ClientIP()); err != nil {
		h.countGuardBlock(err)
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": id})
}

// --- patients ---

type patientResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Phone       string    `json:"phone,omitempty"`
	Age         int       `json:"age"`
}

type updatePatientRequest struct {
	FullName    string    `json:"full_name" binding:"required"`
	Email       string    `json:"email" binding:"required,email"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Phone       string    `json:"phone"`
}

func toPatientResponse(p *patient.Patient) patientResponse {
	return patientResponse{
		ID:          p.ID,
		FullName:    p.FullName,
		Email:       p.Email,
		DateOfBirth: p.DateOfBirth,
		Phone:       p.Phone,
		Age:         p.Age(),
	}
}

func (h *CatalogHandler) ListPatients(c *gin.Context) {
	list, err := h.patientSvc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]patientResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPatientResponse(p))
	}
	respondOK(c, out)
}

func (h *CatalogHandler) GetPatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.patientSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPatientResponse(p))
}

func (h *CatalogHandler) UpdatePatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	p, err := h.patientSvc.Update(c.Request.Context(), id, &patient.UpdatePatientCommand{
		FullName:    req.FullName,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
	}, claims.UserID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPatientResponse(p))
}

func (h *CatalogHandler) DeletePatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.patientSvc.Delete(c.Request.Context(), id, claims.UserID, c.ClientIP()); err != nil {
		h.countGuardBlock(err)
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": id})
}

// --- pharmacists ---

type pharmacistResponse struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PharmacyName string    `json:"pharmacy_name"`
}

type updatePharmacistRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	PharmacyName string `json:"pharmacy_name" binding:"required"`
}

func toPharmacistResponse(ph *pharmacist.Pharmacist) pharmacistResponse {
	return pharmacistResponse{ID: ph.ID, FullName: ph.FullName, Email: ph.Email, PharmacyName: ph.PharmacyName}
}

func (h *CatalogHandler) ListPharmacists(c *gin.Context) {
	list, err := h.pharmacistSvc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]pharmacistResponse, 0, len(list))
	for _, ph := range list {
		out = append(out, toPharmacistResponse(ph))
	}
	respondOK(c, out)
}

func (h *CatalogHandler) GetPharmacist(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	ph, err := h.pharmacistSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPharmacistResponse(ph))
}

func (h *CatalogHandler) UpdatePharmacist(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePharmacistRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	ph, err := h.pharmacistSvc.Update(c.Request.Context(), id, &pharmacist.UpdatePharmacistCommand{
		FullName:     req.FullName,
		Email:        req.Email,
		PharmacyName: req.PharmacyName,
	}, claims.UserID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPharmacistResponse(ph))
}

func (h *CatalogHandler) DeletePharmacist(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.pharmacistSvc.Delete(c.Request.Context(), id, claims.UserID, c.ClientIP()); err != nil {
		h.countGuardBlock(err)
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": id})
}

// --- medications ---

type medicationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Stock       int       `json:"stock"`
	Description string    `json:"description,omitempty"`
}

type medicationRequest struct {
	Name        string `json:"name" binding:"required"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
}

func toMedicationResponse(m *medication.Medication) medicationResponse {
	return medicationResponse{ID: m.ID, Name: m.Name, Stock: m.Stock, Description: m.Description}
}

func (h *CatalogHandler) ListMedications(c *gin.Context) {
	list, err := h.medicationSvc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]medicationResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMedicationResponse(m))
	}
	respondOK(c, out)
}

func (h *CatalogHandler) GetMedication(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	m, err := h.medicationSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toMedicationResponse(m))
}

func (h *CatalogHandler) CreateMedication(c *gin.Context) {
	var req medicationRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.medicationSvc.Create(c.Request.Context(), &medication.CreateMedicationCommand{
		Name:        req.Name,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toMedicationResponse(m))
}

func (h *CatalogHandler) UpdateMedication(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req medicationRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.medicationSvc.Update(c.Request.Context(), id, &medication.UpdateMedicationCommand{
		Name:        req.Name,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toMedicationResponse(m))
}

func (h *CatalogHandler) DeleteMedication(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.medicationSvc.Delete(c.Request.Context(), id); err != nil {
		h.countGuardBlock(err)
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": id})
}
