package sessions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swappo/authsvc/internal/server/models"
)

func newSession(id, userID string, ttl time.Duration) *models.Session {
	return &models.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
}

func TestInMemory_RegisterAndIsActive(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("t1", "u1", time.Hour)))

	active, err := repo.IsActive(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = repo.IsActive(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, active, "missing entry must be inactive, not an error")
}

func TestInMemory_ExpiryBoundary(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("past", "u1", -time.Second)))
	require.NoError(t, repo.Create(ctx, newSession("future", "u1", time.Second)))

	active, err := repo.IsActive(ctx, "past")
	require.NoError(t, err)
	assert.False(t, active, "entry past its expiry must be inactive")

	active, err = repo.IsActive(ctx, "future")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestInMemory_RevokeIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("t1", "u1", time.Hour)))

	did, err := repo.Revoke(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, did, "first revoke performs the transition")

	did, err = repo.Revoke(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, did, "second revoke is a no-op, not an error")

	did, err = repo.Revoke(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, did, "revoking a nonexistent id is not an error")

	active, err := repo.IsActive(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestInMemory_RevokeAllForUser(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("t1", "u1", time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("t2", "u1", time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("t3", "u2", time.Hour)))

	require.NoError(t, repo.RevokeAllForUser(ctx, "u1"))

	for id, want := range map[string]bool{"t1": false, "t2": false, "t3": true} {
		active, err := repo.IsActive(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, active, "session %s", id)
	}
}

func TestInMemory_ConcurrentRevoke_OneWinner(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("t1", "u1", time.Hour)))

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)

	wins := make(chan bool, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			did, err := repo.Revoke(ctx, "t1")
			require.NoError(t, err)
			wins <- did
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for did := range wins {
		if did {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent revoke must report the transition")
}
