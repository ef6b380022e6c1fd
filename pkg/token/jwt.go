// Package token issues and verifies the signed bearer tokens handed to
// administrators after login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KindAdmin is the token kind issued to organization administrators.
const KindAdmin = "admin"

var (
	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSecret is returned when an Issuer is built without a secret.
	ErrMissingSecret = errors.New("token signing secret is empty")
	// ErrUnsupportedAlgorithm is returned for non-HMAC signing algorithms.
	ErrUnsupportedAlgorithm = errors.New("unsupported token signing algorithm")
)

// Claims carried by an administrator token.
type Claims struct {
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id,omitempty"`
	Kind           string `json:"type"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a shared HMAC secret. It is immutable
// after construction and safe for concurrent use.
type Issuer struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer. algorithm must be one of HS256, HS384 or HS512.
// A zero ttl issues tokens without an expiry claim.
func NewIssuer(secret, algorithm string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return &Issuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue returns a signed token for subject carrying the given identity claims.
func (i *Issuer) Issue(subject, email, organizationID, kind string) (string, error) {
	now := i.now()
	claims := &Claims{
		Email:          email,
		OrganizationID: organizationID,
		Kind:           kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns its claims. Every failure, including
// an expired token, wraps ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
