package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/desertthunder/medspa/internal/shared"
)

const sessionIssuer = "medspa"

// SessionCodec signs and verifies the session cookie value.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionCodec creates a [SessionCodec]. An empty secret is a configuration error.
func NewSessionCodec(secret string, ttl time.Duration) (*SessionCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: session secret is required", shared.ErrMissingCredentials)
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionCodec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns how long encoded values stay valid.
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Encode signs sessionID into a token valid for the codec's TTL.
func (c *SessionCodec) Encode(sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("%w: session id is required", shared.ErrInvalidInput)
	}

	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies value and returns the session id it names.
//
// Expired tokens return [shared.ErrSessionExpired]; anything else that fails verification
// returns [shared.ErrNotAuthenticated].
func (c *SessionCodec) Decode(value string) (string, error) {
	if value == "" {
		return "", shared.ErrNotAuthenticated
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %v", shared.ErrSessionExpired, err)
		}
		return "", fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	if claims.ID == "" {
		return "", fmt.Errorf("%w: token names no session", shared.ErrNotAuthenticated)
	}
	return claims.ID, nil
}
