package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The first hit in a window sets its expiry; every hit returns the count and
// the remaining TTL so all instances share one counter.
var fixedWindow = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {n, ttl}
`)

type Redis struct {
	rdb    redis.Scripter
	prefix string
}

func NewRedis(rdb redis.Scripter, prefix string) *Redis {
	if prefix == "" {
		prefix = "frieren:rl:"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) Check(ctx context.Context, key string, window time.Duration, max int) (Result, error) {
	vals, err := fixedWindow.Run(ctx, r.rdb, []string{r.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: redis: %w", err)
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("ratelimit: redis: unexpected reply %v", vals)
	}
	n, ttl := int(vals[0]), time.Duration(vals[1])*time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	if n > max {
		return Result{Allowed: false, RetryAfter: ttl}, nil
	}
	return Result{Allowed: true, Remaining: max - n}, nil
}
