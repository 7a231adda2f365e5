package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahtycare/sahty/internal/config"
	"github.com/sahtycare/sahty/internal/domain"
)

func testManager() *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "sahty-test",
	})
}

func TestTokenPairRoundTrip(t *testing.T) {
	m := testManager()
	userID := uuid.New()

	pair, err := m.GenerateTokenPair(&domain.Claims{
		UserID: userID,
		Email:  "amel@example.com",
		Roles:  []domain.Role{domain.RoleAdmin, domain.RoleDoctor},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "amel@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
	assert.True(t, claims.HasRole(domain.RoleDoctor))
}

func TestTokenTypeMismatch(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Roles: []domain.Role{domain.RolePatient}})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestWrongSecretRejected(t *testing.T) {
	m := testManager()
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New()})
	require.NoError(t, err)

	other := NewJWTManager(config.JWTConfig{
		Secret: "a-completely-different-secret-value!", Issuer: "sahty-test",
		AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Minute,
	})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLegacyRoleNamesNormalized(t *testing.T) {
	m := testManager()
	userID := uuid.New()

	// A token minted by the previous deployment carries French role names.
	legacy := jwt.NewWithClaims(jwt.SigningMethodHS256, sahtyClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sahty-test",
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:     "karim@example.com",
		Roles:     []string{"Medecins"},
		TokenType: accessTokenType,
	})
	signed, err := legacy.SignedString([]byte("test-secret-at-least-32-characters!!"))
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(signed)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(domain.RoleDoctor))
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "sahty-test",
	})

	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
