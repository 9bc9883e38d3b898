package utils // package utils provides helpers for token creation and verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/a-marchenko/hookah-notes-api/internal/model"
)

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, wrong signing method, expired or malformed. Callers never
// learn which; all of them mean "not authenticated".
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is the payload of a short-lived access token. The verifier
// trusts these claims as of issue time without a database round trip, which
// is why the access TTL bounds the revocation latency.
type AccessClaims struct {
	UserID   uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. TokenVersion snapshots
// the user's revocation counter at issue time; the refresh flow rejects the
// token once the counter has moved past the snapshot.
type RefreshClaims struct {
	UserID       uint64 `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion int    `json:"tokenVersion"`
	jwt.RegisteredClaims
}

// AccessToken bundles a signed access token with its expiry so handlers can
// set cookie lifetimes without re-parsing the JWT.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken bundles a signed refresh token with its expiry.
type RefreshToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken signs an HS256 access token carrying the user's identity
// and role. A signing failure means the secret is misconfigured and must
// propagate to the caller.
func NewAccessToken(secret string, u model.User, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := AccessClaims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken signs an HS256 refresh token with a distinct secret,
// embedding the current token version alongside the identity claims.
func NewRefreshToken(secret string, u model.User, ttlDays int) (RefreshToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := RefreshClaims{
		UserID:       u.ID,
		Username:     u.Username,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of an access token and
// returns its claims. Any failure collapses into ErrInvalidToken.
func ParseAccessToken(secret, raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseInto(secret, raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefreshToken verifies a refresh token against the refresh secret.
func ParseRefreshToken(secret, raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parseInto(secret, raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseInto(secret, raw string, claims jwt.Claims) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return ErrInvalidToken
	}
	return nil
}
