package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/weave/pkg/adapters/redis"
	"github.com/aretw0/weave/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunPositionStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))

	require.NoError(t, store.Save(ctx, "s1", &ports.Snapshot{Agent: "id", Position: []byte(`[{}]`)}))
	assert.True(t, mr.Exists("test:s1"))
	assert.Equal(t, time.Minute, mr.TTL("test:s1"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestRedisStore_CorruptSnapshot(t *testing.T) {
	mr, client := newClient(t)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "not json"))

	_, err := redis.NewFromClient(client).Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestRedisStore_ReservedNames(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()
	store := redis.NewFromClient(client)
	snap := &ports.Snapshot{Agent: "id", Position: []byte(`[{}]`)}

	for _, id := range []string{"index", ".index", "_index", "a"} {
		require.NoError(t, store.Save(ctx, id, snap), id)
	}
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index", ".index", "_index", "a"}, ids)
	assert.True(t, mr.Exists("weave:session.index"))

	got, err := store.Load(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, "id", got.Agent)

	// Without a trailing separator the index is reachable from a session ID.
	bare := redis.NewFromClient(client, redis.WithPrefix("bare"))
	assert.Error(t, bare.Save(ctx, ".index", snap))
	require.NoError(t, bare.Save(ctx, "s1", snap))
	ids, err = bare.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}
