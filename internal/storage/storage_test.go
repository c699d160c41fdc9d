package storage_test

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/cartcalc/internal/port"
	"github.com/nikolayk812/cartcalc/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T, ttl time.Duration) (*storage.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r, err := storage.NewRedis(client, ttl)
	require.NoError(t, err)

	return r, mr
}

func TestSnapshotStorage(t *testing.T) {
	backends := map[string]func(t *testing.T) port.SnapshotStorage{
		"memory": func(*testing.T) port.SnapshotStorage {
			return storage.NewMemory()
		},
		"redis": func(t *testing.T) port.SnapshotStorage {
			r, _ := newRedis(t, time.Hour)
			return r
		},
	}

	for name, newStorage := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			s := newStorage(t)
			key := gofakeit.UUID()

			_, err := s.Load(ctx, key)
			require.ErrorIs(t, err, port.ErrNotFound)

			payload := []byte(`[{"productId":"` + gofakeit.UUID() + `"}]`)
			require.NoError(t, s.Save(ctx, key, payload))

			got, err := s.Load(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, payload, got)

			require.NoError(t, s.Save(ctx, key, []byte(`[]`)))
			got, err = s.Load(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte(`[]`), got)

			require.NoError(t, s.Delete(ctx, key))
			_, err = s.Load(ctx, key)
			require.ErrorIs(t, err, port.ErrNotFound)

			_, err = s.Load(ctx, "")
			require.EqualError(t, err, "key is empty")
			require.EqualError(t, s.Save(ctx, "", payload), "key is empty")
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := t.Context()
	m := storage.NewMemory()

	payload := []byte("abc")
	require.NoError(t, m.Save(ctx, "k", payload))
	payload[0] = 'x'

	got, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestRedis_TTL(t *testing.T) {
	ctx := t.Context()
	r, mr := newRedis(t, time.Minute)

	require.NoError(t, r.Save(ctx, "owner:cartItems", []byte(`[]`)))
	assert.True(t, mr.Exists("cart:snapshot:owner:cartItems"))

	mr.FastForward(2 * time.Minute)

	_, err := r.Load(ctx, "owner:cartItems")
	require.ErrorIs(t, err, port.ErrNotFound)
}

func TestNewRedis(t *testing.T) {
	_, err := storage.NewRedis(nil, time.Minute)
	require.EqualError(t, err, "client is nil")

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { _ = client.Close() })

	_, err = storage.NewRedis(client, -time.Second)
	require.EqualError(t, err, "ttl[-1s] is negative")
}
