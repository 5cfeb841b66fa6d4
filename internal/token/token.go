// Package token implements stateless signing and verification of session
// tokens. A verified token is the sole trust boundary for request identity:
// any claim that verifies is treated as authoritative for the rest of the
// request, with no secondary lookup.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired is returned when a token's expiry timestamp has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalidSignature is returned when a token fails signature verification.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrMalformed is returned when the input is not a token at all.
	ErrMalformed = errors.New("malformed token")
)

// Claims is the identity payload carried by a session token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a process-wide secret.
// The secret is loaded once at startup and never mutated, so concurrent
// use without synchronization is safe.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec. Every issued token expires after ttl.
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// TTL reports the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token asserting the given identity, stamped with issued-at
// and expiry timestamps.
func (c *Codec) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Verify checks the signature and expiry of a raw token and returns its
// claims. Failures are ordinary errors, never panics.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrInvalidSignature
		}
	}

	if !tok.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}
