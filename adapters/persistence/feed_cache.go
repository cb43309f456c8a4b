package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/vidshare/internal/domain/video"
)

const (
	feedCacheKey      = "videos:feed"
	feedGenerationKey = "videos:feed:gen"
)

var errStaleFeed = errors.New("feed generation changed")

type redisFeedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisFeedCache(rdb *redis.Client, ttl time.Duration) video.FeedCache {
	return &redisFeedCache{rdb: rdb, ttl: ttl}
}

func (c *redisFeedCache) GetFeed(ctx context.Context) ([]*video.Video, bool, error) {
	raw, err := c.rdb.Get(ctx, feedCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read feed cache: %w", err)
	}

	var videos []*video.Video
	if err := json.Unmarshal(raw, &videos); err != nil {
		// Drop an unreadable entry so the next list repopulates it.
		c.rdb.Del(ctx, feedCacheKey)
		return nil, false, fmt.Errorf("decode feed cache: %w", err)
	}
	return videos, true, nil
}

func (c *redisFeedCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, feedGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read feed generation: %w", err)
	}
	return gen, nil
}

// SetFeed writes under WATCH on the generation key. A concurrent Invalidate
// either changes the generation before the check or aborts the transaction.
func (c *redisFeedCache) SetFeed(ctx context.Context, gen int64, videos []*video.Video) (bool, error) {
	raw, err := json.Marshal(videos)
	if err != nil {
		return false, fmt.Errorf("encode feed cache: %w", err)
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, feedGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleFeed
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, feedCacheKey, raw, c.ttl)
			return nil
		})
		return err
	}, feedGenerationKey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleFeed), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, fmt.Errorf("write feed cache: %w", err)
	}
}

func (c *redisFeedCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, feedGenerationKey)
		pipe.Del(ctx, feedCacheKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate feed cache: %w", err)
	}
	return nil
}

type nopFeedCache struct{}

// NewNopFeedCache is used when no Redis address is configured.
func NewNopFeedCache() video.FeedCache {
	return nopFeedCache{}
}

func (nopFeedCache) GetFeed(ctx context.Context) ([]*video.Video, bool, error) {
	return nil, false, nil
}

func (nopFeedCache) Generation(ctx context.Context) (int64, error) { return 0, nil }

func (nopFeedCache) SetFeed(ctx context.Context, gen int64, videos []*video.Video) (bool, error) {
	return false, nil
}

func (nopFeedCache) Invalidate(ctx context.Context) error { return nil }
