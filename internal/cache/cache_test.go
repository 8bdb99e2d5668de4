package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

// testClient connects to REDIS_TEST_ADDR; tests skip when it is unset.
func testClient(t *testing.T) *redisv9.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redisv9.NewClient(&redisv9.Options{Addr: addr, DB: 15})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

func TestHistoryCacheDirtyMarker(t *testing.T) {
	ctx := context.Background()
	hc := NewHistoryCache(testClient(t), time.Minute, time.Second)

	msgs := []model.ChatMessage{{ID: 1, SessionID: 9, Role: model.RoleUser, Content: "hi"}}
	require.NoError(t, hc.SetHistory(ctx, 9, msgs))

	got, hit, err := hc.GetHistory(ctx, 9)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "hi", got[0].Content)

	require.NoError(t, hc.Invalidate(ctx, 9))
	dirty, err := hc.IsDirty(ctx, 9)
	require.NoError(t, err)
	assert.True(t, dirty)
	_, hit, err = hc.GetHistory(ctx, 9)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRateLimiterWindow(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter(testClient(t), 2, time.Minute)
	key := fmt.Sprintf("test:%d", time.Now().UnixNano())

	for i := 0; i < 2; i++ {
		ok, _, err := rl.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, retry, err := rl.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))
}
