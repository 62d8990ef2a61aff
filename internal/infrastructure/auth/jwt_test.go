package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: 24 * time.Hour,
		Issuer:     "storefront-test",
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.IssueToken(TokenInput{UserID: userID, Email: "thabo@example.com", Name: "Thabo", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), token.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "thabo@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)

	got, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Greater(t, claims.GetRemainingTTL(), 23*time.Hour)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token, err := svc.IssueToken(TokenInput{UserID: uuid.New()})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := newTestJWTService().IssueToken(TokenInput{UserID: uuid.New()})
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "another-secret", Expiration: time.Hour, Issuer: "storefront-test"})
	_, err = other.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storefront-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:  uuid.New().String(),
		IsAdmin: true,
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingUserID(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "storefront-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := newTestJWTService().ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
