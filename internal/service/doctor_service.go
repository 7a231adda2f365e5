package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/appointment"
	"github.com/sahtycare/sahty/internal/domain/doctor"
	"github.com/sahtycare/sahty/internal/domain/prescription"
)

// DoctorService is the admin-facing catalog over doctor profiles. Profiles
// are created by the role synchronizer, never here; this service reads,
// edits and removes existing ones.
type DoctorService struct {
	repo          doctor.Repository
	users         UserRepository
	appointments  appointment.Repository
	prescriptions prescription.Repository
	tx            TxManager
	auditSvc      *AuditService
	log           *zap.Logger
}

func NewDoctorService(
	repo doctor.Repository,
	users UserRepository,
	appointments appointment.Repository,
	prescriptions prescription.Repository,
	tx TxManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *DoctorService {
	return &DoctorService{
		repo:          repo,
		users:         users,
		appointments:  appointments,
		prescriptions: prescriptions,
		tx:            tx,
		auditSvc:      auditSvc,
		log:           log,
	}
}

func (s *DoctorService) List(ctx context.Context) ([]*doctor.Doctor, error) {
	return s.repo.List(ctx)
}

func (s *DoctorService) Get(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits the profile and propagates name and email to the owning
// account, keeping the denormalized copy consistent.
func (s *DoctorService) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand, callerID uuid.UUID, ip string) (*doctor.Doctor, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	var d *doctor.Doctor
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		d, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		taken, err := s.repo.ExistsByEmail(ctx, email, &d.ID)
		if err != nil {
			return err
		}
		if taken {
			return doctor.ErrEmailInUse
		}

		d.FullName = cmd.FullName
		d.Speciality = cmd.Speciality
		d.Email = email
		if err := s.repo.Update(ctx, d); err != nil {
			return fmt.Errorf("updating doctor: %w", err)
		}

		return s.syncOwner(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "update", ResourceType: "doctor", ResourceID: id.String(), IPAddress: ip,
	})

	return d, nil
}

// Delete removes the profile and its owning account together. A doctor
// still referenced by appointments or prescriptions cannot be removed.
func (s *DoctorService) Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, ip string) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		hasAppointments, err := s.appointments.ExistsForDoctor(ctx, d.ID)
		if err != nil {
			return err
		}
		hasPrescriptions, err := s.prescriptions.ExistsForDoctor(ctx, d.ID)
		if err != nil {
			return err
		}
		if hasAppointments || hasPrescriptions {
			return doctor.ErrDoctorReferenced
		}

		if err := s.repo.Delete(ctx, d.ID); err != nil {
			return fmt.Errorf("deleting doctor: %w", err)
		}
		return s.users.Delete(ctx, d.UserID)
	})
	if err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "delete", ResourceType: "doctor", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}

func (s *DoctorService) syncOwner(ctx context.Context, d *doctor.Doctor) error {
	u, err := s.users.GetByID(ctx, d.UserID)
	if err != nil {
		return err
	}
	u.Email = d.Email
	u.FullName = d.FullName
	u.Role = domain.RoleDoctor
	return s.users.Update(ctx, u)
}
