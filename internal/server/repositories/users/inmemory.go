package users

import (
	"context"
	"sync"

	"github.com/swappo/authsvc/internal/common"
	"github.com/swappo/authsvc/internal/server/models"
)

// InMemoryRepository is the ephemeral credential store: a process-local map
// guarded by a mutex. Data is lost on restart; there is no cross-process
// consistency. Intended for testing and single-instance demo runs.
type InMemoryRepository struct {
	mu        sync.RWMutex
	byID      map[string]*models.User
	idByEmail map[string]string
	idByName  map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:      make(map[string]*models.User),
		idByEmail: make(map[string]string),
		idByName:  make(map[string]string),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.idByEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.idByName[user.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}

	stored := *user
	r.byID[stored.ID] = &stored
	r.idByEmail[stored.Email] = stored.ID
	r.idByName[stored.Username] = stored.ID

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *user
	return &out, nil
}

func (r *InMemoryRepository) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *InMemoryRepository) Deactivate(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	user.IsActive = false
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.idByEmail, user.Email)
	delete(r.idByName, user.Username)
	delete(r.byID, userID)
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
var _ Repository = (*PostgresRepository)(nil)
