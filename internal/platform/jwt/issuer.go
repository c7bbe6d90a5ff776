package jwtmw

import (
	"errors"
	"fmt"
	"math"
	"time"

	"account_backend/internal/feature/auth/domain"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiration is the lifetime of an access token when none is configured.
const DefaultExpiration = 15 * time.Minute

// Identity is the caller identity carried by a verified access token.
type Identity struct {
	UserID uint
	Email  string
}

// Verifier checks an access token and returns the identity it carries.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// Issuer signs and verifies HS256 access tokens with a single shared secret.
type Issuer struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewIssuer creates an Issuer. The secret must be non-empty; a non-positive
// expiration falls back to DefaultExpiration.
func NewIssuer(secret []byte, expiration time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Issuer{
		secret:     secret,
		expiration: expiration,
		now:        time.Now,
	}, nil
}

// Issue creates a signed token whose subject is the user id.
func (i *Issuer) Issue(userID uint, email string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"exp":   now.Add(i.expiration).Unix(),
		"iat":   now.Unix(),
		"email": email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses tokenStr, checks its signature and expiry, and extracts the identity.
// Every failure is reported as domain.ErrInvalidToken.
func (i *Issuer) Verify(tokenStr string) (*Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted; this also rejects "none".
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	// JWT numbers are decoded as float64
	sub, ok := claims["sub"].(float64)
	if !ok || sub < 1 || sub != math.Trunc(sub) || sub > math.MaxUint32 {
		return nil, domain.ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &Identity{UserID: uint(sub), Email: email}, nil
}
