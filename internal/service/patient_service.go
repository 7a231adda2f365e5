package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/appointment"
	"github.com/sahtycare/sahty/internal/domain/patient"
	"github.com/sahtycare/sahty/internal/domain/prescription"
)

// PatientService is the admin-facing catalog over patient profiles.
type PatientService struct {
	repo          patient.Repository
	users         UserRepository
	appointments  appointment.Repository
	prescriptions prescription.Repository
	tx            TxManager
	auditSvc      *AuditService
	log           *zap.Logger
}

func NewPatientService(
	repo patient.Repository,
	users UserRepository,
	appointments appointment.Repository,
	prescriptions prescription.Repository,
	tx TxManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *PatientService {
	return &PatientService{
		repo:          repo,
		users:         users,
		appointments:  appointments,
		prescriptions: prescriptions,
		tx:            tx,
		auditSvc:      auditSvc,
		log:           log,
	}
}

func (s *PatientService) List(ctx context.Context) ([]*patient.Patient, error) {
	return s.repo.List(ctx)
}

func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand, callerID uuid.UUID, ip string) (*patient.Patient, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	var p *patient.Patient
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		taken, err := s.repo.ExistsByEmail(ctx, email, &p.ID)
		if err != nil {
			return err
		}
		if taken {
			return patient.ErrEmailInUse
		}

		p.FullName = cmd.FullName
		p.Email = email
		p.DateOfBirth = cmd.DateOfBirth
		p.Phone = cmd.Phone
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("updating patient: %w", err)
		}

		u, err := s.users.GetByID(ctx, p.UserID)
		if err != nil {
			return err
		}
		u.Email = p.Email
		u.FullName = p.FullName
		u.Role = domain.RolePatient
		return s.users.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "update", ResourceType: "patient", ResourceID: id.String(), IPAddress: ip,
	})

	return p, nil
}

// Delete removes the profile and its owning account. A patient with
// appointments or prescriptions on file stays.
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, ip string) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		hasAppointments, err := s.appointments.ExistsForPatient(ctx, p.ID)
		if err != nil {
			return err
		}
		hasPrescriptions, err := s.prescriptions.ExistsForPatient(ctx, p.ID)
		if err != nil {
			return err
		}
		if hasAppointments || hasPrescriptions {
			return patient.ErrPatientReferenced
		}

		if err := s.repo.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("deleting patient: %w", err)
		}
		return s.users.Delete(ctx, p.UserID)
	})
	if err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "delete", ResourceType: "patient", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}
