package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/pharmacist"
	"github.com/sahtycare/sahty/internal/domain/prescription"
)

// PharmacistService is the admin-facing catalog over pharmacist profiles.
type PharmacistService struct {
	repo          pharmacist.Repository
	users         UserRepository
	prescriptions prescription.Repository
	tx            TxManager
	auditSvc      *AuditService
	log           *zap.Logger
}

func NewPharmacistService(
	repo pharmacist.Repository,
	users UserRepository,
	prescriptions prescription.Repository,
	tx TxManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *PharmacistService {
	return &PharmacistService{
		repo:          repo,
		users:         users,
		prescriptions: prescriptions,
		tx:            tx,
		auditSvc:      auditSvc,
		log:           log,
	}
}

func (s *PharmacistService) List(ctx context.Context) ([]*pharmacist.Pharmacist, error) {
	return s.repo.List(ctx)
}

func (s *PharmacistService) Get(ctx context.Context, id uuid.UUID) (*pharmacist.Pharmacist, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PharmacistService) Update(ctx context.Context, id uuid.UUID, cmd *pharmacist.UpdatePharmacistCommand, callerID uuid.UUID, ip string) (*pharmacist.Pharmacist, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	var ph *pharmacist.Pharmacist
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		ph, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		taken, err := s.repo.ExistsByEmail(ctx, email, &ph.ID)
		if err != nil {
			return err
		}
		if taken {
			return pharmacist.ErrEmailInUse
		}

		ph.FullName = cmd.FullName
		ph.Email = email
		ph.PharmacyName = cmd.PharmacyName
		if err := s.repo.Update(ctx, ph); err != nil {
			return fmt.Errorf("updating pharmacist: %w", err)
		}

		u, err := s.users.GetByID(ctx, ph.UserID)
		if err != nil {
			return err
		}
		u.Email = ph.Email
		u.FullName = ph.FullName
		u.Role = domain.RolePharmacist
		return s.users.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "update", ResourceType: "pharmacist", ResourceID: id.String(), IPAddress: ip,
	})

	return ph, nil
}

// Delete removes the profile and its owning account unless prescriptions
// still reference it.
func (s *PharmacistService) Delete(ctx context.Context, id uuid.UUID, callerID uuid.UUID, ip string) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		ph, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		hasPrescriptions, err := s.prescriptions.ExistsForPharmacist(ctx, ph.ID)
		if err != nil {
			return err
		}
		if hasPrescriptions {
			return pharmacist.ErrPharmacistReferenced
		}

		if err := s.repo.Delete(ctx, ph.ID); err != nil {
			return fmt.Errorf("deleting pharmacist: %w", err)
		}
		return s.users.Delete(ctx, ph.UserID)
	})
	if err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "delete", ResourceType: "pharmacist", ResourceID: id.String(), IPAddress: ip,
	})

	return nil
}
