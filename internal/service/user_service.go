package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/appointment"
	"github.com/sahtycare/sahty/internal/domain/doctor"
	"github.com/sahtycare/sahty/internal/domain/patient"
	"github.com/sahtycare/sahty/internal/domain/pharmacist"
	"github.com/sahtycare/sahty/internal/domain/prescription"
)

// UserService keeps each account's domain profile consistent with its role:
// exactly one doctor/patient/pharmacist row per account holding that role,
// none otherwise. Every role change or deletion runs its dependency guards
// and removals inside one transaction, so a guard failing late leaves no
// partial state.
type UserService struct {
	users         UserRepository
	doctors       doctor.Repository
	patients      patient.Repository
	pharmacists   pharmacist.Repository
	appointments  appointment.Repository
	prescriptions prescription.Repository
	tx            TxManager
	auditSvc      *AuditService
	log           *zap.Logger
}

func NewUserService(
	users UserRepository,
	doctors doctor.Repository,
	patients patient.Repository,
	pharmacists pharmacist.Repository,
	appointments appointment.Repository,
	prescriptions prescription.Repository,
	tx TxManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *UserService {
	return &UserService{
		users:         users,
		doctors:       doctors,
		patients:      patients,
		pharmacists:   pharmacists,
		appointments:  appointments,
		prescriptions: prescriptions,
		tx:            tx,
		auditSvc:      auditSvc,
		log:           log,
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// CreateUser is the admin console path. It only mints admin accounts;
// domain-role accounts come from registration plus SetDomainRole.
func (s *UserService) CreateUser(ctx context.Context, email, password, rawRole, fullName string, callerID uuid.UUID, ip string) (*domain.User, error) {
	role := domain.NormalizeRole(rawRole)
	if !role.IsValid() {
		return nil, ErrUnknownRole
	}
	if role != domain.RoleAdmin {
		return nil, ErrAdminCreateRestricted
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		IsAdmin:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "create", ResourceType: "user", ResourceID: user.ID.String(), IPAddress: ip,
	})

	return user, nil
}

// SetDomainRole replaces the account's domain role. The old role's profile
// is removed first, but only when nothing references it; a referenced
// profile aborts the whole operation with a conflict and no mutation.
// Assigning admin clears the domain role instead of setting one.
func (s *UserService) SetDomainRole(ctx context.Context, userID uuid.UUID, rawRole string, callerID uuid.UUID, ip string) (*domain.User, error) {
	role := domain.NormalizeRole(rawRole)
	if !role.IsValid() {
		return nil, ErrUnknownRole
	}

	var user *domain.User
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if err := s.removeProfilesExcept(ctx, user, role); err != nil {
			return err
		}

		if role == domain.RoleAdmin {
			user.IsAdmin = true
			user.Role = ""
		} else {
			user.Role = role
		}
		if err := s.users.Update(ctx, user); err != nil {
			return fmt.Errorf("updating user role: %w", err)
		}

		return s.EnsureProfile(ctx, user, role)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "update", ResourceType: "user", ResourceID: userID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"role":%q}`, role),
	})

	return user, nil
}

// GrantAdmin is additive: it never touches the domain role or its profile.
func (s *UserService) GrantAdmin(ctx context.Context, userID uuid.UUID, callerID uuid.UUID, ip string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		return user, nil
	}

	user.IsAdmin = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("granting admin: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "update", ResourceType: "user", ResourceID: userID.String(), IPAddress: ip,
		Changes: `{"is_admin":true}`,
	})

	return user, nil
}

// DeleteUser removes the account and its domain profile. All profile-kind
// guards run before any removal persists: one referenced profile rolls
// everything back.
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID, callerID uuid.UUID, ip string) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if err := s.removeProfilesExcept(ctx, user, domain.RoleAdmin); err != nil {
			return err
		}

		return s.users.Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: string(domain.RoleAdmin),
		Action: "delete", ResourceType: "user", ResourceID: userID.String(), IPAddress: ip,
	})

	return nil
}

// EnsureProfile creates the profile row for role if the account does not
// already have one. Idempotent; placeholder defaults match what the
// registration flow seeds.
func (s *UserService) EnsureProfile(ctx context.Context, user *domain.User, role domain.Role) error {
	switch role {
	case domain.RoleDoctor:
		_, err := s.doctors.GetByUserID(ctx, user.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, doctor.ErrDoctorNotFound) {
			return err
		}
		return s.doctors.Create(ctx, &doctor.Doctor{
			UserID:     user.ID,
			FullName:   user.DisplayName(),
			Speciality: "General",
			Email:      user.Email,
		})

	case domain.RolePharmacist:
		_, err := s.pharmacists.GetByUserID(ctx, user.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pharmacist.ErrPharmacistNotFound) {
			return err
		}
		return s.pharmacists.Create(ctx, &pharmacist.Pharmacist{
			UserID:       user.ID,
			FullName:     user.DisplayName(),
			Email:        user.Email,
			PharmacyName: "Pharmacy",
		})

	case domain.RolePatient:
		_, err := s.patients.GetByUserID(ctx, user.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, patient.ErrPatientNotFound) {
			return err
		}
		return s.patients.Create(ctx, &patient.Patient{
			UserID:      user.ID,
			FullName:    user.DisplayName(),
			Email:       user.Email,
			DateOfBirth: time.Now().UTC().Truncate(24 * time.Hour),
			Phone:       "N/A",
		})
	}

	// Admin holds no domain profile.
	return nil
}

// removeProfilesExcept drops every profile the user holds for a domain role
// other than keep, guarding each against referencing records. Must run
// inside the caller's transaction.
func (s *UserService) removeProfilesExcept(ctx context.Context, user *domain.User, keep domain.Role) error {
	if user.Role == keep {
		return nil
	}

	switch user.Role {
	case domain.RoleDoctor:
		d, err := s.doctors.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, doctor.ErrDoctorNotFound) {
				return nil
			}
			return err
		}
		if err := s.guardDoctor(ctx, d.ID); err != nil {
			return err
		}
		return s.doctors.Delete(ctx, d.ID)

	case domain.RolePatient:
		p, err := s.patients.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, patient.ErrPatientNotFound) {
				return nil
			}
			return err
		}
		if err := s.guardPatient(ctx, p.ID); err != nil {
			return err
		}
		return s.patients.Delete(ctx, p.ID)

	case domain.RolePharmacist:
		ph, err := s.pharmacists.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, pharmacist.ErrPharmacistNotFound) {
				return nil
			}
			return err
		}
		if err := s.guardPharmacist(ctx, ph.ID); err != nil {
			return err
		}
		return s.pharmacists.Delete(ctx, ph.ID)
	}

	return nil
}

func (s *UserService) guardDoctor(ctx context.Context, doctorID uuid.UUID) error {
	hasAppointments, err := s.appointments.ExistsForDoctor(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("checking doctor appointments: %w", err)
	}
	hasPrescriptions, err := s.prescriptions.ExistsForDoctor(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("checking doctor prescriptions: %w", err)
	}
	if hasAppointments || hasPrescriptions {
		return doctor.ErrDoctorReferenced
	}
	return nil
}

func (s *UserService) guardPatient(ctx context.Context, patientID uuid.UUID) error {
	hasAppointments, err := s.appointments.ExistsForPatient(ctx, patientID)
	if err != nil {
		return fmt.Errorf("checking patient appointments: %w", err)
	}
	hasPrescriptions, err := s.prescriptions.ExistsForPatient(ctx, patientID)
	if err != nil {
		return fmt.Errorf("checking patient prescriptions: %w", err)
	}
	if hasAppointments || hasPrescriptions {
		return patient.ErrPatientReferenced
	}
	return nil
}

func (s *UserService) guardPharmacist(ctx context.Context, pharmacistID uuid.UUID) error {
	hasPrescriptions, err := s.prescriptions.ExistsForPharmacist(ctx, pharmacistID)
	if err != nil {
		return fmt.Errorf("checking pharmacist prescriptions: %w", err)
	}
	if hasPrescriptions {
		return pharmacist.ErrPharmacistReferenced
	}
	return nil
}
