package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/swappo/authsvc/internal/server/models"
)

// InMemoryRepository is the ephemeral registry backend. The mutex is the
// native atomic-update facility here: Revoke's check-and-set under the lock
// gives the same one-winner guarantee as the conditional UPDATE in the
// durable backend.
type InMemoryRepository struct {
	mu   sync.Mutex
	byID map[string]*models.Session
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*models.Session)}
}

func (r *InMemoryRepository) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *session
	r.byID[stored.ID] = &stored
	return nil
}

func (r *InMemoryRepository) IsActive(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	return session.Active(time.Now()), nil
}

func (r *InMemoryRepository) Revoke(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byID[id]
	if !ok || session.Revoked {
		return false, nil
	}
	session.Revoked = true
	return true, nil
}

func (r *InMemoryRepository) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.byID {
		if session.UserID == userID {
			session.Revoked = true
		}
	}
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
var _ Repository = (*PostgresRepository)(nil)
