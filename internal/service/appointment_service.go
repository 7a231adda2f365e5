package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/appointment"
	"github.com/sahtycare/sahty/internal/domain/doctor"
	"github.com/sahtycare/sahty/internal/domain/patient"
)

const apptDateFormat = "2006-01-02 15:04"

// AppointmentService owns the requested → accepted/refused workflow.
// Patients create and may edit requests while still pending; only the
// owning doctor moves them to a terminal state.
type AppointmentService struct {
	repo          appointment.Repository
	doctors       doctor.Repository
	patients      patient.Repository
	notifications *NotificationService
	tx            TxManager
	auditSvc      *AuditService
	log           *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	doctors doctor.Repository,
	patients patient.Repository,
	notifications *NotificationService,
	tx TxManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:          repo,
		doctors:       doctors,
		patients:      patients,
		notifications: notifications,
		tx:            tx,
		auditSvc:      auditSvc,
		log:           log,
	}
}

// Request creates an appointment in the requested state and notifies the
// doctor's account. The caller must have a patient profile.
func (s *AppointmentService) Request(ctx context.Context, claims *domain.Claims, cmd *appointment.RequestAppointmentCommand) (*appointment.Appointment, error) {
	p, err := s.patients.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var a *appointment.Appointment
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		d, err := s.doctors.GetByID(ctx, cmd.DoctorID)
		if err != nil {
			return err
		}

		a = &appointment.Appointment{
			DoctorID:  d.ID,
			PatientID: p.ID,
			Date:      cmd.Date,
			Status:    appointment.StatusRequested,
		}
		if err := s.repo.Create(ctx, a); err != nil {
			return fmt.Errorf("creating appointment: %w", err)
		}

		return s.notifications.Notify(ctx, d.UserID,
			"New appointment request",
			fmt.Sprintf("A patient requested an appointment on %s.", a.Date.Format(apptDateFormat)),
			"/doctor/appointments")
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(domain.RolePatient),
		Action: "create", ResourceType: "appointment", ResourceID: a.ID.String(),
	})

	return a, nil
}

// Accept transitions the appointment to accepted. Only the owning doctor
// may call it, and only while the appointment is still requested.
func (s *AppointmentService) Accept(ctx context.Context, claims *domain.Claims, id uuid.UUID) (*appointment.Appointment, error) {
	return s.resolve(ctx, claims, id, appointment.StatusAccepted)
}

// Refuse transitions the appointment to refused under the same rules.
func (s *AppointmentService) Refuse(ctx context.Context, claims *domain.Claims, id uuid.UUID) (*appointment.Appointment, error) {
	return s.resolve(ctx, claims, id, appointment.StatusRefused)
}

func (s *AppointmentService) resolve(ctx context.Context, claims *domain.Claims, id uuid.UUID, target appointment.Status) (*appointment.Appointment, error) {
	d, err := s.doctors.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var a *appointment.Appointment
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.DoctorID != d.ID {
			return ErrForbidden
		}

		switch target {
		case appointment.StatusAccepted:
			err = a.Accept()
		case appointment.StatusRefused:
			err = a.Refuse()
		default:
			err = appointment.ErrInvalidStatusTransition
		}
		if err != nil {
			return err
		}

		if err := s.repo.Update(ctx, a); err != nil {
			return fmt.Errorf("updating appointment status: %w", err)
		}

		p, err := s.patients.GetByID(ctx, a.PatientID)
		if err != nil {
			return err
		}

		verb := "accepted"
		if target == appointment.StatusRefused {
			verb = "refused"
		}
		return s.notifications.Notify(ctx, p.UserID,
			fmt.Sprintf("Appointment %s", verb),
			fmt.Sprintf("Your appointment on %s has been %s.", a.Date.Format(apptDateFormat), verb),
			"/patient/appointments")
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: claims.UserID, UserRole: string(domain.RoleDoctor),
		Action: "update", ResourceType: "appointment", ResourceID: id.String(),
		Changes: fmt.Sprintf(`{"status":%q}`, target),
	})

	return a, nil
}

// Update lets the owning patient move the appointment to another doctor or
// date while it is still requested.
func (s *AppointmentService) Update(ctx context.Context, claims *domain.Claims, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	p, err := s.patients.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var a *appointment.Appointment
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.PatientID != p.ID {
			return ErrForbidden
		}
		if a.Status != appointment.StatusRequested {
			return appointment.ErrNotModifiable
		}

		if _, err := s.doctors.GetByID(ctx, cmd.DoctorID); err != nil {
			return err
		}

		a.DoctorID = cmd.DoctorID
		a.Date = cmd.Date
		return s.repo.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Delete removes a still-requested appointment owned by the caller.
func (s *AppointmentService) Delete(ctx context.Context, claims *domain.Claims, id uuid.UUID) error {
	p, err := s.patients.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.PatientID != p.ID {
			return ErrForbidden
		}
		if a.Status != appointment.StatusRequested {
			return appointment.ErrNotModifiable
		}
		return s.repo.Delete(ctx, id)
	})
}

// List returns every appointment for admins and the doctor's own for
// doctors. A doctor without a profile sees an empty list, not an error.
func (s *AppointmentService) List(ctx context.Context, claims *domain.Claims) ([]*appointment.Appointment, error) {
	if claims.IsAdmin() {
		return s.repo.List(ctx)
	}

	if claims.HasRole(domain.RoleDoctor) {
		d, err := s.doctors.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, doctor.ErrDoctorNotFound) {
				return []*appointment.Appointment{}, nil
			}
			return nil, err
		}
		return s.repo.ListByDoctor(ctx, d.ID)
	}

	return nil, ErrForbidden
}

// ListMine is the patient's view.
func (s *AppointmentService) ListMine(ctx context.Context, claims *domain.Claims) ([]*appointment.Appointment, error) {
	p, err := s.patients.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return []*appointment.Appointment{}, nil
		}
		return nil, err
	}
	return s.repo.ListByPatient(ctx, p.ID)
}
