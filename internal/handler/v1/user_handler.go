package v1

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/doctor"
	"github.com/sahtycare/sahty/internal/domain/patient"
	"github.com/sahtycare/sahty/internal/domain/pharmacist"
	"github.com/sahtycare/sahty/internal/service"
	"github.com/sahtycare/sahty/pkg/metrics"
)

// UserHandler exposes the admin console: accounts, role assignment and
// removal, each backed by the profile synchronizer.
type UserHandler struct {
	userSvc   *service.UserService
	collector *metrics.Collector
}

func NewUserHandler(userSvc *service.UserService, collector *metrics.Collector) *UserHandler {
	return &UserHandler{userSvc: userSvc, collector: collector}
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	roles := make([]string, 0, 2)
	for _, r := range u.Roles() {
		roles = append(roles, string(r))
	}
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.DisplayName(),
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Role     string `json:"role" binding:"required"`
}

type assignRoleRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role" binding:"required"`
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondOK(c, out)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toUserResponse(user))
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), req.Email, req.Password, req.Role, req.FullName, claims.UserID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toUserResponse(user))
}

// AssignRole replaces the target's domain role; "admin" instead grants
// the admin flag without touching the domain role.
func (h *UserHandler) AssignRole(c *gin.Context) {
	var req assignRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	role := domain.NormalizeRole(req.Role)
	var (
		user *domain.User
		err  error
	)
	if role == domain.RoleAdmin {
		user, err = h.userSvc.GrantAdmin(c.Request.Context(), req.UserID, claims.UserID, c.ClientIP())
	} else {
		user, err = h.userSvc.SetDomainRole(c.Request.Context(), req.UserID, req.Role, claims.UserID, c.ClientIP())
	}
	if err != nil {
		h.countGuardBlock(err)
		respondServiceError(c, err)
		return
	}

	h.collector.RoleChangesTotal.WithLabelValues(string(role)).Inc()
	respondOK(c, toUserResponse(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.userSvc.DeleteUser(c.Request.Context(), id, claims.UserID, c.ClientIP()); err != nil {
		h.countGuardBlock(err)
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": id})
}

func (h *UserHandler) countGuardBlock(err error) {
	if errors.Is(err, doctor.ErrDoctorReferenced) ||
		errors.Is(err, patient.ErrPatientReferenced) ||
		errors.Is(err, pharmacist.ErrPharmacistReferenced) {
		h.collector.DependencyGuardBlocks.Inc()
	}
}
