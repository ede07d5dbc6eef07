package util

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce returns true the first time key is seen within the ttl and
// false for repeats. Redis failures allow processing.
func (d *Deduper) AcquireOnce(ctx context.Context, scope, key string) bool {
	redisKey := "dedup:" + scope + ":" + key

	ok, err := d.rdb.SetNX(ctx, redisKey, 1, d.ttl).Result()
	if err != nil {
		d.logger.Warn("Redis dedup check failed, allowing processing",
			zap.String("scope", scope),
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}

	if !ok {
		d.logger.Info("Skipped duplicated request",
			zap.String("scope", scope),
			zap.String("dedup_key", redisKey),
		)
	}

	return ok
}

// Release forgets key so a failed attempt can be retried.
func (d *Deduper) Release(ctx context.Context, scope, key string) {
	if err := d.rdb.Del(ctx, "dedup:"+scope+":"+key).Err(); err != nil {
		d.logger.Warn("Redis dedup release failed",
			zap.String("scope", scope),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
