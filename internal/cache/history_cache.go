package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

// HistoryCache keeps a session transcript in redis. Writers set a short
// dirty marker before persisting so readers skip the cache until the write
// has landed.
type HistoryCache struct {
	client         redisv9.Cmdable
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewHistoryCache(client redisv9.Cmdable, historyTTL, dirtyMarkerTTL time.Duration) *HistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &HistoryCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *HistoryCache) GetHistory(ctx context.Context, sessionID uint) ([]model.ChatMessage, bool, error) {
	raw, err := c.client.Get(ctx, historyKey(sessionID)).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var messages []model.ChatMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return messages, true, nil
}

func (c *HistoryCache) SetHistory(ctx context.Context, sessionID uint, messages []model.ChatMessage) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal history cache failed: %w", err)
	}
	if err := c.client.Set(ctx, historyKey(sessionID), payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

// Invalidate marks the session dirty and drops the cached transcript.
func (c *HistoryCache) Invalidate(ctx context.Context, sessionID uint) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, dirtyKey(sessionID), "1", c.dirtyMarkerTTL)
	pipe.Del(ctx, historyKey(sessionID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) DeleteHistory(ctx context.Context, sessionID uint) error {
	if err := c.client.Del(ctx, historyKey(sessionID), dirtyKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) IsDirty(ctx context.Context, sessionID uint) (bool, error) {
	exists, err := c.client.Exists(ctx, dirtyKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func historyKey(sessionID uint) string {
	return fmt.Sprintf("chat:history:%d", sessionID)
}

func dirtyKey(sessionID uint) string {
	return fmt.Sprintf("chat:history:dirty:%d", sessionID)
}
