package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/doctor"
	"github.com/sahtycare/sahty/internal/domain/medication"
	"github.com/sahtycare/sahty/internal/domain/patient"
	"github.com/sahtycare/sahty/internal/domain/pharmacist"
	"github.com/sahtycare/sahty/internal/domain/prescription"
)

// PrescriptionService owns the pending → accepted/refused workflow.
// Doctors issue prescriptions; the assigned pharmacist resolves them.
type PrescriptionService struct {
	repo          prescription.Repository
	doctors       doctor.Repository
	patients      patient.Repository
	pharmacists   pharmacist.Repository
	medications   medication.Repository
	notifications *NotificationService
	tx            TxManager
	auditSvc      *AuditService
	log           *zap.Logger
}

func NewPrescriptionService(
	repo prescription.Repository,
	doctors doctor.Repository,
	patients patient.Repository,
	pharmacists pharmacist.Repository,
	medications medication.Repository,
	notifications *NotificationService,
	tx TxManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		repo:          repo,
		doctors:       doctors,
		patients:      patients,
		pharmacists:   pharmacists,
		medications:   medications,
		notifications: notifications,
		tx:            tx,
		auditSvc:      auditSvc,
		log:           log,
	}
}

// Create issues a new pending prescription. The issuing doctor is always
// the caller; every referenced entity must exist before the row is
// written, and the assigned pharmacist is notified in the same
// transaction.
func (s *PrescriptionService) Create(ctx context.Context, claims *domain.Claims, cmd *prescription.CreatePrescriptionCommand) (*prescription.Prescription, error) {
	d, err := s.doctors.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var p *prescription.Prescription
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, cmd.PatientID, cmd.MedicationID); err != nil {
			return err
		}
		ph, err := s.pharmacists.GetByID(ctx, cmd.PharmacistID)
		if err != nil {
			return err
		}

		p = &prescription.Prescription{
			DoctorID:     d.ID,
			PatientID:    cmd.PatientID,
			PharmacistID: ph.ID,
			MedicationID: cmd.MedicationID,
			DateIssued:   cmd.DateIssued,
			Dosage:       cmd.Dosage,
			Notes:        cmd.Notes,
			Status:       prescription.StatusPending,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("creating prescription: %w", err)
		}

		return s.notifications.Notify(ctx, ph.UserID,
			"New prescription to review",
			fmt.Sprintf("Dr. %s issued a prescription awaiting your review.", d.FullName),
			"/pharmacist/prescriptions")
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(domain.RoleDoctor),
		Action: "create", ResourceType: "prescription", ResourceID: p.ID.String(),
	})

	return p, nil
}

// Accept marks the prescription accepted and notifies both the patient
// and the issuing doctor. Accepting an already-accepted prescription
// returns the current row without emitting anything again.
func (s *PrescriptionService) Accept(ctx context.Context, claims *domain.Claims, id uuid.UUID) (*prescription.Prescription, error) {
	ph, err := s.pharmacists.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pharmacist.ErrPharmacistNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var p *prescription.Prescription
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.PharmacistID != ph.ID {
			return ErrForbidden
		}
		if p.Status == prescription.StatusAccepted {
			return nil
		}
		if !p.CanTransitionTo(prescription.StatusAccepted) {
			return prescription.ErrInvalidStatusTransition
		}

		p.Status = prescription.StatusAccepted
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("updating prescription status: %w", err)
		}
		return s.notifyResolution(ctx, p, ph)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(domain.RolePharmacist),
		Action: "update", ResourceType: "prescription", ResourceID: id.String(),
		Changes: `{"status":"accepted"}`,
	})

	return p, nil
}

// Refuse marks the prescription refused and notifies the patient.
func (s *PrescriptionService) Refuse(ctx context.Context, claims *domain.Claims, id uuid.UUID) (*prescription.Prescription, error) {
	ph, err := s.pharmacists.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pharmacist.ErrPharmacistNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var p *prescription.Prescription
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.PharmacistID != ph.ID {
			return ErrForbidden
		}
		if !p.CanTransitionTo(prescription.StatusRefused) {
			return prescription.ErrInvalidStatusTransition
		}

		p.Status = prescription.StatusRefused
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("updating prescription status: %w", err)
		}
		return s.notifyResolution(ctx, p, ph)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(domain.RolePharmacist),
		Action: "update", ResourceType: "prescription", ResourceID: id.String(),
		Changes: `{"status":"refused"}`,
	})

	return p, nil
}

// Update rewrites a prescription assigned to the caller. The status field
// arrives as raw text and must parse to a known value; the transition
// table still applies, so a terminal prescription cannot be reopened.
// When the edit itself moves pending to a terminal state, the same
// notifications fire as on Accept/Refuse.
func (s *PrescriptionService) Update(ctx context.Context, claims *domain.Claims, id uuid.UUID, cmd *prescription.UpdatePrescriptionCommand) (*prescription.Prescription, error) {
	ph, err := s.pharmacists.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pharmacist.ErrPharmacistNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	status, err := prescription.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	var p *prescription.Prescription
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.PharmacistID != ph.ID {
			return ErrForbidden
		}

		transitioned := status != p.Status
		if transitioned && !p.CanTransitionTo(status) {
			return prescription.ErrInvalidStatusTransition
		}

		if err := s.checkReferences(ctx, cmd.PatientID, cmd.MedicationID); err != nil {
			return err
		}

		p.PatientID = cmd.PatientID
		p.MedicationID = cmd.MedicationID
		p.DateIssued = cmd.DateIssued
		p.Dosage = cmd.Dosage
		p.Notes = cmd.Notes
		p.Status = status
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}

		if transitioned {
			return s.notifyResolution(ctx, p, ph)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// notifyResolution emits the terminal-state notifications: patient always,
// the issuing doctor additionally on accept.
func (s *PrescriptionService) notifyResolution(ctx context.Context, p *prescription.Prescription, ph *pharmacist.Pharmacist) error {
	pat, err := s.patients.GetByID(ctx, p.PatientID)
	if err != nil {
		return err
	}

	if p.Status == prescription.StatusRefused {
		return s.notifications.Notify(ctx, pat.UserID,
			"Prescription refused",
			fmt.Sprintf("Your prescription has been refused by %s.", ph.PharmacyName),
			"/patient/prescriptions")
	}

	d, err := s.doctors.GetByID(ctx, p.DoctorID)
	if err != nil {
		return err
	}
	if err := s.notifications.Notify(ctx, pat.UserID,
		"Prescription ready",
		fmt.Sprintf("Your prescription has been accepted by %s.", ph.PharmacyName),
		"/patient/prescriptions"); err != nil {
		return err
	}
	return s.notifications.Notify(ctx, d.UserID,
		"Prescription accepted",
		fmt.Sprintf("Your prescription for %s has been accepted by %s.", pat.FullName, ph.PharmacyName),
		"/doctor/prescriptions")
}

// Delete removes a prescription. The issuing doctor or the assigned
// pharmacist may delete it.
func (s *PrescriptionService) Delete(ctx context.Context, claims *domain.Claims, id uuid.UUID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		owns, err := s.callerOwns(ctx, claims, p)
		if err != nil {
			return err
		}
		if !owns {
			return ErrForbidden
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *PrescriptionService) callerOwns(ctx context.Context, claims *domain.Claims, p *prescription.Prescription) (bool, error) {
	if claims.HasRole(domain.RoleDoctor) {
		d, err := s.doctors.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, doctor.ErrDoctorNotFound) {
				return false, nil
			}
			return false, err
		}
		if d.ID == p.DoctorID {
			return true, nil
		}
	}
	if claims.HasRole(domain.RolePharmacist) {
		ph, err := s.pharmacists.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, pharmacist.ErrPharmacistNotFound) {
				return false, nil
			}
			return false, err
		}
		if ph.ID == p.PharmacistID {
			return true, nil
		}
	}
	return false, nil
}

// List returns every prescription for admins, the caller's own for
// doctors and pharmacists. A missing profile yields an empty list.
func (s *PrescriptionService) List(ctx context.Context, claims *domain.Claims) ([]*prescription.Prescription, error) {
	if claims.IsAdmin() {
		return s.repo.List(ctx)
	}

	switch {
	case claims.HasRole(domain.RoleDoctor):
		d, err := s.doctors.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, doctor.ErrDoctorNotFound) {
				return []*prescription.Prescription{}, nil
			}
			return nil, err
		}
		return s.repo.ListByDoctor(ctx, d.ID)
	case claims.HasRole(domain.RolePharmacist):
		ph, err := s.pharmacists.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, pharmacist.ErrPharmacistNotFound) {
				return []*prescription.Prescription{}, nil
			}
			return nil, err
		}
		return s.repo.ListByPharmacist(ctx, ph.ID)
	}

	return nil, ErrForbidden
}

// ListMine is the patient's view.
func (s *PrescriptionService) ListMine(ctx context.Context, claims *domain.Claims) ([]*prescription.Prescription, error) {
	pat, err := s.patients.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return []*prescription.Prescription{}, nil
		}
		return nil, err
	}
	return s.repo.ListByPatient(ctx, pat.ID)
}

func (s *PrescriptionService) checkReferences(ctx context.Context, patientID, medicationID uuid.UUID) error {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return err
	}
	ok, err := s.medications.Exists(ctx, medicationID)
	if err != nil {
		return err
	}
	if !ok {
		return medication.ErrMedicationNotFound
	}
	return nil
}
