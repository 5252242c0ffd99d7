package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendamed/internal/pkg/token"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := token.NewService("segredo", 7*24*time.Hour)

	raw, err := svc.GenerateToken("user-1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidate_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-8 * 24 * time.Hour)
	issuer := token.NewService("segredo", 7*24*time.Hour).WithClock(func() time.Time { return issuedAt })
	raw, err := issuer.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = token.NewService("segredo", 7*24*time.Hour).ValidateToken(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	raw, err := token.NewService("segredo", time.Hour).GenerateToken("user-1")
	require.NoError(t, err)

	_, err = token.NewService("outro", time.Hour).ValidateToken(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	claims := token.CustomClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    token.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = token.NewService("segredo", time.Hour).ValidateToken(raw)
	assert.Error(t, err)
}

func TestValidate_Empty(t *testing.T) {
	_, err := token.NewService("segredo", time.Hour).ValidateToken("")
	assert.ErrorIs(t, err, token.ErrEmptyToken)
}
