// Package token signs and verifies bearer tokens carrying identity claims.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/eventboard/eventboard/internal/model"
)

// ErrInvalid is returned for any token that fails verification. The
// wrapped cause (malformed, bad signature, expired) is for logging only;
// callers must not expose it to clients.
var ErrInvalid = errors.New("invalid token")

// Claims is the fixed payload embedded in every issued token.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim as the account identifier.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.FromString(c.Subject)
}

// Codec issues and verifies HS256 tokens with a fixed TTL. Stateless and
// safe for concurrent use; the signing key is injected at construction
// and never read from ambient state.
type Codec struct {
	signKey []byte
	ttl     time.Duration
}

// New constructs a Codec with the given signing key and token lifetime.
func New(signKey []byte, ttl time.Duration) *Codec {
	return &Codec{signKey: signKey, ttl: ttl}
}

// Issue creates a signed HS256 token for the given account and role.
func (c *Codec) Issue(userID uuid.UUID, role model.Role) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(c.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.signKey)
	return signed, exp, err
}

// Verify checks the signature and expiry of a token and returns its
// claims. Only HS256 is accepted: tokens declaring any other algorithm
// (including "none") are rejected before any claim is trusted.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.signKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, claims.Role)
	}
	return &claims, nil
}
