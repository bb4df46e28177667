// Package auth implements the token codec and password hashing used by the
// authentication service.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/swappo/authsvc/internal/common"
)

// Kind tells access and refresh tokens apart. It is embedded in the claims
// and enforced on verification, so a refresh token can never pass where an
// access token is expected, and vice versa.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the claim set carried by every issued token: the registered
// jti/sub/iat/exp claims plus the token kind.
type Claims struct {
	jwt.RegisteredClaims
	Kind Kind `json:"knd"`
}

// Codec issues and verifies HS256-signed tokens. Each kind has its own
// secret and TTL; compromising one secret must not allow forging the other
// kind.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (c *Codec) secret(kind Kind) []byte {
	if kind == KindRefresh {
		return c.refreshSecret
	}
	return c.accessSecret
}

func (c *Codec) ttl(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue mints a token of the given kind for subject. The expiration instant
// is fixed at issuance (now + TTL) and never re-derived later, so a token's
// lifetime does not move with subsequent configuration changes. The returned
// claims carry the generated jti and expiry for registry bookkeeping.
func (c *Codec) Issue(kind Kind, subject string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl(kind))),
		},
		Kind: kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret(kind))
	if err != nil {
		return "", nil, err
	}

	return signed, claims, nil
}

// Verify parses and validates a token of the given kind. It fails with
// common.ErrTokenExpired when the token is past its expiry and with
// common.ErrInvalidToken on any other defect: bad signature, malformed
// string, wrong signing method, or a kind mismatch.
func (c *Codec) Verify(kind Kind, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return c.secret(kind), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Kind != kind {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
