package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AvailabilityCache memoizes room conflict lookups in Redis. Entries are
// keyed by a per-room version counter, so invalidation is a single INCR and
// stale entries age out via TTL instead of being swept.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl, logger: slog.Default()}
}

func (c *AvailabilityCache) GetRoomConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time) ([]queries.BookingSummary, bool) {
	key, err := c.entryKey(ctx, roomID, start, end)
	if err != nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("availability cache read failed", "error", err.Error())
		}
		return nil, false
	}

	var conflicts []queries.BookingSummary
	if err := json.Unmarshal(raw, &conflicts); err != nil {
		c.logger.Warn("availability cache entry corrupt", "key", key)
		return nil, false
	}
	return conflicts, true
}

func (c *AvailabilityCache) SetRoomConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time, conflicts []queries.BookingSummary) {
	key, err := c.entryKey(ctx, roomID, start, end)
	if err != nil {
		return
	}
	raw, err := json.Marshal(conflicts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("availability cache write failed", "error", err.Error())
	}
}

func (c *AvailabilityCache) InvalidateRoom(ctx context.Context, roomID uuid.UUID) error {
	return c.client.Incr(ctx, c.versionKey(roomID)).Err()
}

func (c *AvailabilityCache) versionKey(roomID uuid.UUID) string {
	return "availability:room:" + roomID.String() + ":ver"
}

func (c *AvailabilityCache) entryKey(ctx context.Context, roomID uuid.UUID, start, end time.Time) (string, error) {
	ver, err := c.client.Get(ctx, c.versionKey(roomID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("availability:room:%s:%d:%d:%d",
		roomID, ver, start.UTC().Unix(), end.UTC().Unix()), nil
}
