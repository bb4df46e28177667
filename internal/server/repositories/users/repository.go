// Package users declares the credential-store contract: user identity
// records behind one interface with an ephemeral and a durable backend.
package users

import (
	"context"

	"github.com/swappo/authsvc/internal/server/models"
)

// Repository is the capability contract shared by both storage backends.
type Repository interface {
	// Create stores a new user. It returns common.ErrorAlreadyExists when
	// the email or username is already taken; under concurrent creates for
	// the same identifier exactly one caller succeeds.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error

	// Deactivate marks the account inactive without removing the record.
	Deactivate(ctx context.Context, userID string) error

	// Delete removes the user record entirely.
	Delete(ctx context.Context, userID string) error
}
