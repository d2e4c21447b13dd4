package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

// Only the owner token may delete the key.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisConfig struct {
	Prefix string
	TTL    time.Duration
	Retry  time.Duration
}

// Redis is a SET NX PX lock shared by every instance pointing at the same
// Redis. The TTL bounds how long a crashed holder can block others.
type Redis struct {
	rdb *goredis.Client
	log *logger.Logger
	cfg RedisConfig
}

func NewRedis(rdb *goredis.Client, log *logger.Logger, cfg RedisConfig) *Redis {
	if cfg.Prefix == "" {
		cfg.Prefix = "moodwatch:lock:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.Retry <= 0 {
		cfg.Retry = 50 * time.Millisecond
	}
	return &Redis{rdb: rdb, log: log.With("service", "RedisLocker"), cfg: cfg}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	full := r.cfg.Prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(r.cfg.Retry)
	defer ticker.Stop()
	for {
		ok, err := r.rdb.SetNX(ctx, full, token, r.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		case <-ticker.C:
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, r.rdb, []string{full}, token).Err(); err != nil {
			r.log.Warn("redis unlock failed", "key", key, "error", err)
		}
	}, nil
}
