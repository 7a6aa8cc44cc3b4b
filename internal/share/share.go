// Package share issues signed, expiring links to a single verification result.
package share

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long a share token stays valid when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired share token")

// Manager signs and validates share tokens.
type Manager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// Claims identifies the shared verification.
type Claims struct {
	VerificationID string `json:"verification_id"`
	jwt.RegisteredClaims
}

// NewManager creates a Manager. A non-positive ttl uses DefaultTTL.
func NewManager(secretKey string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Generate signs a token for the verification and returns it with its expiry.
func (m *Manager) Generate(verificationID string) (string, time.Time, error) {
	if verificationID == "" {
		return "", time.Time{}, errors.New("verification id is required")
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		VerificationID: verificationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt.Truncate(time.Second), nil
}

// Validate parses a token and returns its claims.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.VerificationID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
