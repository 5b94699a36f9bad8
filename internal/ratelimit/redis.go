package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// fixedWindowScript checks before it increments, so a denied call leaves
// the counter untouched. The key expires with the window, which is the
// reset.
const fixedWindowScript = `
local max = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local count = tonumber(redis.call("GET", KEYS[1]) or "0")
if count >= max then
  return 0
end

count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ttl)
end
return 1
`

// RedisWindow is the fixed-window counter backed by redis, for running more
// than one instance against the same outbound budget.
type RedisWindow struct {
	client *redis.Client
	script *redis.Script
	log    *zap.Logger

	max       int
	window    time.Duration
	perTenant bool
}

func NewRedisWindow(client *redis.Client, log *zap.Logger, max int, window time.Duration, perTenant bool) *RedisWindow {
	return &RedisWindow{
		client:    client,
		script:    redis.NewScript(fixedWindowScript),
		log:       log,
		max:       max,
		window:    window,
		perTenant: perTenant,
	}
}

func (w *RedisWindow) key(tenantID int64) string {
	if w.perTenant {
		return fmt.Sprintf("survey:budget:tenant:%d", tenantID)
	}
	return "survey:budget:global"
}

// TryAcquire implements Acquirer. A redis failure admits the send with a
// warning: the messaging provider still throttles on its side, and an
// unreachable redis should not halt all surveys.
func (w *RedisWindow) TryAcquire(ctx context.Context, tenantID int64) bool {
	res, err := w.script.Run(
		ctx,
		w.client,
		[]string{w.key(tenantID)},
		w.max,
		int64(w.window/time.Millisecond),
	).Int64()
	if err != nil {
		w.log.Warn("rate limiter unavailable, admitting send",
			zap.Int64("tenant_id", tenantID), zap.Error(err))
		return true
	}
	return res == 1
}
