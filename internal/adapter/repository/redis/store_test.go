package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/V4T54L/leatherstore/internal/domain"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionRepository(t *testing.T) {
	mr, client := setupRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	s, err := repo.Create(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, time.Hour, mr.TTL(sessionKeyPrefix+s.ID))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, got.UserID)

	t.Run("unknown or malformed id", func(t *testing.T) {
		_, err := repo.Get(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = repo.Get(ctx, "2f1b7c8e-8f5a-4d43-9a64-5d0e2f9b6c11")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("expiry", func(t *testing.T) {
		other, err := repo.Create(ctx, 7)
		require.NoError(t, err)
		mr.FastForward(2 * time.Hour)
		_, err = repo.Get(ctx, other.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete drops the cart too", func(t *testing.T) {
		s, err := repo.Create(ctx, 1)
		require.NoError(t, err)
		carts := NewCartRepository(client, time.Hour)
		require.NoError(t, carts.Save(ctx, s.ID, domain.Cart{Lines: []domain.CartLine{{ProductID: 1, Quantity: 1}}}))

		require.NoError(t, repo.Delete(ctx, s.ID))
		assert.False(t, mr.Exists(sessionKeyPrefix+s.ID))
		assert.False(t, mr.Exists(cartKeyPrefix+s.ID))
	})
}

func TestCartRepository(t *testing.T) {
	mr, client := setupRedis(t)
	repo := NewCartRepository(client, 30*time.Minute)
	ctx := context.Background()

	empty, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	cart := domain.Cart{}
	cart.Add(3, 2)
	cart.Add(5, 1)
	require.NoError(t, repo.Save(ctx, "s1", cart))
	assert.Equal(t, 30*time.Minute, mr.TTL(cartKeyPrefix+"s1"))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, cart.Lines, got.Lines)

	require.NoError(t, repo.Save(ctx, "s1", domain.Cart{}))
	assert.False(t, mr.Exists(cartKeyPrefix+"s1"))

	t.Run("corrupt payload", func(t *testing.T) {
		require.NoError(t, mr.Set(cartKeyPrefix+"s2", "{not json"))
		_, err := repo.Get(ctx, "s2")
		assert.Error(t, err)
	})
}

func TestIsUnavailable(t *testing.T) {
	mr, client := setupRedis(t)
	mr.Close()

	err := client.Ping(context.Background()).Err()
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsUnavailable(errors.New("WRONGTYPE")))
}
