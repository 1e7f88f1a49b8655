// Package token implements the signed bearer token codec used by the auth
// service. The signing secret must never be handed to any other service;
// everyone else verifies tokens by calling the auth service.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// Claims are the decoded contents of a valid token.
type Claims struct {
	Subject string // email
	Role    string
	ID      int64
}

// Codec issues and verifies HS256 tokens with a fixed TTL.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the given identity, expiring after the codec TTL.
func (c *Codec) Issue(id *domain.PublicIdentity) (string, error) {
	claims := jwt.MapClaims{
		"sub":  id.Email,
		"role": id.Role,
		"id":   id.ID,
		"exp":  c.now().Add(c.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify validates the signature and expiry of raw and returns its claims.
// Every failure mode (malformed input, wrong signature, expired) collapses
// into domain.ErrInvalidToken so callers cannot distinguish them.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &Claims{Subject: sub, Role: role}
	if id, ok := claims["id"].(float64); ok {
		out.ID = int64(id)
	}
	return out, nil
}
