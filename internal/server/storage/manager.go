// Package storage selects and wires the persistence backend. Both variants
// implement one RepositoryManager interface, so everything above this layer
// is backend-agnostic. The backend is chosen once at startup and never
// changes for the lifetime of the process.
package storage

import (
	"context"

	"github.com/swappo/authsvc/internal/server/repositories/sessions"
	"github.com/swappo/authsvc/internal/server/repositories/users"
)

// Mode values accepted by the storage_mode configuration setting.
const (
	ModeEphemeral = "ephemeral"
	ModeDurable   = "durable"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Sessions() sessions.Repository
	Ping(ctx context.Context) error
	Close() error
}
