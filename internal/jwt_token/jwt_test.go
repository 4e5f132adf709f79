package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credverify/pkg/domain"
	dErrors "credverify/pkg/domain-errors"
)

var (
	jwtService = NewJWTService("test-signing-key", "test-issuer")
	ownerID    = id.OwnerID(uuid.New())
)

func Test_GenerateAccessToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(ownerID, id.RoleApplicant, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, ownerID.String(), claims.Subject)
	assert.Equal(t, string(id.RoleApplicant), claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(ownerID, id.RoleApplicant, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))
}

func Test_ValidateToken_WrongIssuer(t *testing.T) {
	other := NewJWTService("test-signing-key", "someone-else")
	token, err := other.GenerateAccessToken(ownerID, id.RoleStaff, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
}

func Test_ValidateToken_Leeway(t *testing.T) {
	issued := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	issuer := NewJWTService("test-signing-key", "test-issuer", withClock(func() time.Time { return issued }))
	token, err := issuer.GenerateAccessToken(ownerID, id.RoleApplicant, time.Minute)
	require.NoError(t, err)

	late := issued.Add(time.Minute + 10*time.Second)
	strict := NewJWTService("test-signing-key", "test-issuer", withClock(func() time.Time { return late }))
	_, err = strict.ValidateToken(token)
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))

	tolerant := NewJWTService("test-signing-key", "test-issuer",
		withClock(func() time.Time { return late }),
		WithLeeway(30*time.Second),
	)
	_, err = tolerant.ValidateToken(token)
	assert.NoError(t, err)
}

func Test_ValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Role: string(id.RoleStaff),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   ownerID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.Equal(t, "invalid token", dErrors.MessageOf(err))
}

func Test_ValidateToken_UnknownRole(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(ownerID, id.Role("root"), time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.Equal(t, "unknown role", dErrors.MessageOf(err))
}

func Test_Adapter(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(ownerID, id.RoleStaff, time.Hour)
	require.NoError(t, err)

	principal, err := NewAdapter(jwtService).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, ownerID, principal.OwnerID)
	assert.Equal(t, id.RoleStaff, principal.Role)
}
