package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tajious/shagun/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenCodec signs and verifies session tokens with a shared HMAC secret.
type TokenCodec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenCodec(secret string, validity time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:   []byte(secret),
		validity: validity,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for iat/exp and for verification.
func (tc *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	tc.now = now
	return tc
}

func (tc *TokenCodec) Validity() time.Duration {
	return tc.validity
}

// Issue returns a signed token for the tenant and its expiry.
func (tc *TokenCodec) Issue(tenant *models.Tenant) (string, time.Time, error) {
	now := tc.now()
	expiresAt := now.Add(tc.validity)

	claims := models.Claims{
		ID:          tenant.ID,
		Role:        tenant.Role,
		Permissions: tenant.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (tc *TokenCodec) Parse(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
