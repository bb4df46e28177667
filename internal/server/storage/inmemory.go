package storage

import (
	"context"

	"github.com/swappo/authsvc/internal/server/repositories/sessions"
	"github.com/swappo/authsvc/internal/server/repositories/users"
)

// InMemoryRepositoryManager backs the ephemeral mode: process-local maps,
// lost on restart. There is nothing to migrate, ping, or close.
type InMemoryRepositoryManager struct {
	users    users.Repository
	sessions sessions.Repository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:    users.NewInMemoryRepository(),
		sessions: sessions.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Sessions() sessions.Repository {
	return m.sessions
}

func (m *InMemoryRepositoryManager) Ping(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

var (
	_ RepositoryManager = (*InMemoryRepositoryManager)(nil)
	_ RepositoryManager = (*PostgresRepositoryManager)(nil)
)
