package universe

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"starforge/internal/shared/errors"
)

// SnapshotCache holds serialized snapshots by universe id.
type SnapshotCache interface {
	Get(ctx context.Context, id uuid.UUID) ([]byte, bool, error)
	Set(ctx context.Context, id uuid.UUID, snapshot []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Cache is the Redis-backed SnapshotCache.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func snapshotKey(id uuid.UUID) string {
	return "starforge:universe:" + id.String() + ":snapshot"
}

func (c *Cache) Get(ctx context.Context, id uuid.UUID) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, snapshotKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WrapExternal("redis snapshot read failed", err)
	}
	return data, true, nil
}

func (c *Cache) Set(ctx context.Context, id uuid.UUID, snapshot []byte) error {
	if err := c.client.Set(ctx, snapshotKey(id), snapshot, c.ttl).Err(); err != nil {
		return errors.WrapExternal("redis snapshot write failed", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, snapshotKey(id)).Err(); err != nil {
		return errors.WrapExternal("redis snapshot delete failed", err)
	}
	return nil
}
