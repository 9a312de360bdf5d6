package universe

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/shared/errors"
)

func TestCacheReportsRedisFailuresAsExternal(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(client, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	_, hit, err := cache.Get(ctx, id)
	require.Error(t, err)
	assert.False(t, hit)
	assert.Equal(t, errors.ErrorTypeExternal, errors.GetType(err))

	err = cache.Set(ctx, id, []byte(`{}`))
	assert.Equal(t, errors.ErrorTypeExternal, errors.GetType(err))

	err = cache.Delete(ctx, id)
	assert.Equal(t, errors.ErrorTypeExternal, errors.GetType(err))
}
