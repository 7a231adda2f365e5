package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/pkg/auth"
)

type AuthService struct {
	users      UserRepository
	userSvc    *UserService
	jwtManager *auth.JWTManager
	tx         TxManager
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAuthService(
	users UserRepository,
	userSvc *UserService,
	jwtManager *auth.JWTManager,
	tx TxManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		userSvc:    userSvc,
		jwtManager: jwtManager,
		tx:         tx,
		auditSvc:   auditSvc,
		log:        log,
	}
}

// Register creates a patient account. Self-registration always yields the
// patient role; other roles are assigned by an admin afterwards.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*domain.TokenPair, *domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         domain.RolePatient,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		return s.userSvc.EnsureProfile(ctx, user, domain.RolePatient)
	})
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokenPairFor(user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return pair, user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.TokenPair, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Burn a bcrypt comparison so response timing does not reveal
		// whether the email exists.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokenPairFor(user)
	if err != nil {
		return nil, nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: user.ID, UserRole: roleLabel(user),
		Action: "login", ResourceType: "user", ResourceID: user.ID.String(), IPAddress: ip,
	})

	return pair, user, nil
}

// RefreshToken issues a new token pair given a valid refresh token. Claims
// are rebuilt from the current user row so a role change takes effect at
// the next refresh.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenPairFor(user)
}

func (s *AuthService) tokenPairFor(user *domain.User) (*domain.TokenPair, error) {
	claims := &domain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles(),
	}
	pair, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}
	return pair, nil
}

func roleLabel(user *domain.User) string {
	if user.IsAdmin {
		return string(domain.RoleAdmin)
	}
	return string(user.Role)
}
