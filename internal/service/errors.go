package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sahtycare/sahty/internal/domain"
)

var (
	ErrForbidden = errors.New("forbidden: insufficient permissions")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailInUse   = errors.New("email already used")
	ErrUnknownRole  = errors.New("unknown role")

	// ErrProfileNotFound means the authenticated caller has no domain
	// profile for the role the operation requires. Surfaced as a bad
	// request, never a crash.
	ErrProfileNotFound = errors.New("caller profile not found")

	// ErrAdminCreateRestricted: the admin console only mints admin
	// accounts directly; doctor/pharmacist/patient accounts go through
	// registration followed by role assignment.
	ErrAdminCreateRestricted = errors.New("admin can only create admin users; use role assignment for other accounts")

	ErrInvalidCredentials = errors.New("invalid email or password")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// TxManager runs a unit of work inside a single database transaction.
// Every guard check and mutation of a core operation happens inside one
// InTx call so a late guard failure rolls back earlier removals.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository is the identity store consumed by the services.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type AuditEntry struct {
	UserID       uuid.UUID
	UserRole     string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	Changes      string
}
