package storage

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

const (
	redisPort       = "6379/tcp"
	redisImage      = "redis"
	redisTag        = "alpine"
	expireDuration  = 120
	maxWaitDuration = 120 * time.Second
)

// startRedis runs a throwaway Redis container. The test is skipped when docker is unavailable.
func startRedis(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping docker test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("could not start redis: %v", err)
	}
	_ = resource.Expire(expireDuration)

	pool.MaxWait = maxWaitDuration

	var client *redis.Client
	if err := pool.Retry(func() error {
		client = redis.NewClient(&redis.Options{Addr: resource.GetHostPort(redisPort)})
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("could not connect to redis: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge resource: %v", err)
		}
	})

	return ctx, client
}

func TestRedisSlotRoundTrip(t *testing.T) {
	ctx, client := startRedis(t)
	store := NewRedisStoreFromClient(client, "test:")
	slot := store.Slot("web:1234")

	assert.Equal(t, "test:save:web:1234", slot.Key())

	_, err := slot.Get(ctx)
	require.ErrorIs(t, err, t2048.ErrNoSavedGame)

	require.NoError(t, slot.Put(ctx, testRecord()))
	got, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, testRecord(), got)

	require.NoError(t, slot.Delete(ctx))
	_, err = slot.Get(ctx)
	require.ErrorIs(t, err, t2048.ErrNoSavedGame)
}

func TestRedisSlotCorrupt(t *testing.T) {
	ctx, client := startRedis(t)
	store := NewRedisStoreFromClient(client, "")
	slot := store.Slot("bad")

	require.NoError(t, client.Set(ctx, slot.Key(), "{not json", 0).Err())

	_, err := slot.Get(ctx)
	require.ErrorIs(t, err, t2048.ErrMalformedRecord)
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}
