// Package sessions declares the refresh-token registry contract. The
// registry is the only stateful gate that can invalidate a still-unexpired
// refresh token, and it follows the same backend split as the credential
// store.
package sessions

import (
	"context"

	"github.com/swappo/authsvc/internal/server/models"
)

// Repository tracks the liveness of issued refresh tokens, keyed by jti.
type Repository interface {
	// Create registers a newly issued refresh token. Called once per token.
	Create(ctx context.Context, session *models.Session) error

	// IsActive reports whether an entry exists, is not revoked, and has not
	// passed its recorded expiry. A missing entry is inactive, not an error.
	IsActive(ctx context.Context, id string) (bool, error)

	// Revoke marks the entry revoked and reports whether this call performed
	// the transition. Revoking a revoked or nonexistent entry returns
	// (false, nil): the registry is already in the desired end state. The
	// conditional update is the serialization point for refresh rotation;
	// under concurrent revokes of the same id exactly one caller sees true.
	Revoke(ctx context.Context, id string) (bool, error)

	// RevokeAllForUser revokes every active entry owned by userID
	// ("log out everywhere").
	RevokeAllForUser(ctx context.Context, userID string) error
}
