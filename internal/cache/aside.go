package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	publicCVsKey = "cvs:public"
	cvKeyPrefix  = "cv:%d"
)

const (
	// PublicCVsTTL bounds how stale the public CV listing may be.
	PublicCVsTTL = 1 * time.Minute
	CVTTL        = 5 * time.Minute
)

// PublicCVsKey is the cache key for the public CV listing page.
func PublicCVsKey(limit, offset int) string {
	return fmt.Sprintf("%s:%d:%d", publicCVsKey, limit, offset)
}

// CVKey is the cache key for a single CV.
func CVKey(cvID uint) string {
	return fmt.Sprintf(cvKeyPrefix, cvID)
}

// Aside implements the cache-aside pattern: on a hit, dest is filled from the
// cached JSON; on a miss, fill is called and its result cached with ttl.
// With no Redis client, fill runs directly and nothing is cached.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fill func() error) error {
	if client == nil {
		return fill()
	}

	raw, err := client.Get(ctx, key).Result()
	if err == nil {
		if uerr := json.Unmarshal([]byte(raw), dest); uerr == nil {
			return nil
		}
		// Corrupt entry; fall through to refill.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		// Redis trouble is not a caller problem; serve from the store.
		return fill()
	}

	if err := fill(); err != nil {
		return err
	}

	if data, merr := json.Marshal(dest); merr == nil {
		client.Set(ctx, key, data, ttl)
	}
	return nil
}

// Invalidate removes a key from the cache.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateCV drops the cached entry for a CV and the public listing pages.
func InvalidateCV(ctx context.Context, cvID uint) {
	if client == nil {
		return
	}
	client.Del(ctx, CVKey(cvID))
	// Listing pages are keyed by pagination; drop them all.
	iter := client.Scan(ctx, 0, publicCVsKey+":*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
