package persistence

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/vidshare/internal/domain/user"
	"github.com/khoahotran/vidshare/pkg/apperror"
)

func TestMemoryVideoRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryVideoRepo()
	base := time.Now().UTC()

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	oldID, err := repo.Insert(ctx, newTestVideo("old", base.Add(-time.Second)))
	require.NoError(t, err)
	newID, err := repo.Insert(ctx, newTestVideo("new", base))
	require.NoError(t, err)

	list, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newID, list[0].ID)
	assert.Equal(t, oldID, list[1].ID)

	// Returned records are copies.
	list[0].Title = "mutated"
	found, err := repo.FindByID(ctx, newID)
	require.NoError(t, err)
	assert.Equal(t, "new", found.Title)

	v, err := repo.IncrementViews(ctx, newID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Views)

	_, err = repo.IncrementLikes(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMemoryVideoRepo_ConcurrentDeleteHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryVideoRepo()
	id, err := repo.Insert(ctx, newTestVideo("race", time.Now().UTC()))
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deleted, err := repo.DeleteByID(ctx, id)
			assert.NoError(t, err)
			if deleted {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()

	id, err := repo.Create(ctx, &user.User{Email: "Eve@Example.com", PasswordHash: "h"})
	require.NoError(t, err)

	u, err := repo.FindByEmail(ctx, "eve@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = repo.Create(ctx, &user.User{Email: "eve@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}
