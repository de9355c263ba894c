package stats

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"eventadmission/internal/domain"
)

const defaultViewsTTL = time.Minute

// cacheStore is the part of the Redis client the view cache uses.
type cacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type cachedViewCounter struct {
	next   domain.ViewCounter
	store  cacheStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedViewCounter keeps view counts from next in Redis for ttl.
// A nil client disables caching and returns next unchanged.
func NewCachedViewCounter(next domain.ViewCounter, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) domain.ViewCounter {
	if rdb == nil {
		return next
	}
	return newCachedViewCounter(next, rdb, ttl, logger)
}

func newCachedViewCounter(next domain.ViewCounter, store cacheStore, ttl time.Duration, logger *slog.Logger) *cachedViewCounter {
	if ttl <= 0 {
		ttl = defaultViewsTTL
	}
	return &cachedViewCounter{next: next, store: store, ttl: ttl, logger: logger}
}

func viewsKey(eventID string) string {
	return "views:" + eventID
}

func (c *cachedViewCounter) EventViews(ctx context.Context, eventID string) (int64, error) {
	key := viewsKey(eventID)
	cached, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		if n, convErr := strconv.ParseInt(cached, 10, 64); convErr == nil {
			return n, nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "views cache read failed", "event_id", eventID, "error", err)
	}

	views, err := c.next.EventViews(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if err := c.store.SetEx(ctx, key, strconv.FormatInt(views, 10), c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "views cache write failed", "event_id", eventID, "error", err)
	}
	return views, nil
}
