package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

var testUser = model.User{
	ID:           42,
	Username:     "alice",
	Role:         model.RoleUser,
	TokenVersion: 3,
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", testUser, 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestRefreshTokenCarriesVersion(t *testing.T) {
	tok, err := NewRefreshToken("refresh-secret", testUser, 7)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), tok.Exp, 5*time.Second)

	claims, err := ParseRefreshToken("refresh-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, uint64(42), claims.UserID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", testUser, 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	claims := AccessClaims{
		UserID:   testUser.ID,
		Username: testUser.Username,
		Role:     testUser.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNonHMAC(t *testing.T) {
	// alg=none tokens must never verify, whatever the payload says.
	claims := AccessClaims{
		UserID: testUser.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseAccessToken("secret", "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseRefreshToken("secret", "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessAndRefreshSecretsAreDistinct(t *testing.T) {
	refresh, err := NewRefreshToken("refresh-secret", testUser, 7)
	require.NoError(t, err)

	// A refresh token must not pass verification against the access secret.
	_, err = ParseAccessToken("access-secret", refresh.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
