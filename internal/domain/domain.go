package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RolePharmacist Role = "pharmacist"
	RolePatient    Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePharmacist, RolePatient:
		return true
	}
	return false
}

// NormalizeRole maps legacy role-name synonyms (the French names used by the
// first deployment) onto the canonical roles. Comparison is case-insensitive;
// unknown names pass through lowercased so IsValid can reject them.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "medecin", "medecins", "doctor":
		return RoleDoctor
	case "pharmacien", "pharmaciens", "pharmacie", "pharmacy", "pharmacist":
		return RolePharmacist
	case "client", "patient":
		return RolePatient
	case "admin":
		return RoleAdmin
	default:
		return Role(strings.ToLower(strings.TrimSpace(raw)))
	}
}

func NormalizeRoles(raw []string) []Role {
	seen := make(map[Role]struct{}, len(raw))
	out := make([]Role, 0, len(raw))
	for _, r := range raw {
		n := NormalizeRole(r)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// User is an authenticated account. Role holds the single active domain role
// (doctor, pharmacist or patient); it is empty for pure admin accounts.
// IsAdmin is a separate additive flag: granting admin never removes the
// domain role, while changing the domain role never clears admin.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	FullName     string `gorm:"column:full_name;type:varchar(200)"`

	Role    Role `gorm:"column:role;type:varchar(30);index"`
	IsAdmin bool `gorm:"column:is_admin;default:false;index"`
}

func (User) TableName() string {
	return "auth.users"
}

// Roles returns every role the account currently holds, admin first.
func (u *User) Roles() []Role {
	var roles []Role
	if u.IsAdmin {
		roles = append(roles, RoleAdmin)
	}
	if u.Role != "" {
		roles = append(roles, u.Role)
	}
	return roles
}

// DisplayName falls back to the email when no full name was provided.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.FullName) == "" {
		return u.Email
	}
	return u.FullName
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	UserRole  string    `gorm:"column:user_role;type:varchar(30);not null"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"`

	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	Changes string `gorm:"column:changes;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

// Claims is the credential content consumed by the services: subject id,
// email and the set of roles the account held at token issuance.
type Claims struct {
	UserID uuid.UUID `json:"sub"`
	Email  string    `json:"email"`
	Roles  []Role    `json:"roles"`
}

func (c *Claims) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c *Claims) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}
