package ratelimiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript mirrors MemoryStore.ConsumeTokens exactly, but as a
// single atomic Lua script so concurrent requests across processes never
// race on the same key. Bucket state lives in a hash with two fields,
// tokens and last_refill (unix nanos); TTL is refreshed on every call so an
// idle bucket eventually expires on its own.
//
// KEYS[1] = bucket key
// ARGV[1] = capacity, ARGV[2] = refill rate, ARGV[3] = refill interval (ns)
// ARGV[4] = tokens requested, ARGV[5] = now (unix nanos), ARGV[6] = ttl (seconds)
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refillRate = tonumber(ARGV[2])
local refillInterval = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local now = tonumber(ARGV[5])
local ttl = tonumber(ARGV[6])

local tokens = capacity
local lastRefill = now

local existing = redis.call("HMGET", key, "tokens", "last_refill")
if existing[1] then
	tokens = tonumber(existing[1])
	lastRefill = tonumber(existing[2])
end

local elapsed = now - lastRefill
local maxIntervals = math.floor(capacity / refillRate) + 1
local intervalsElapsed = math.min(math.floor(elapsed / refillInterval), maxIntervals)

if intervalsElapsed > 0 then
	tokens = math.min(tokens + intervalsElapsed * refillRate, capacity)
	lastRefill = now
end

tokens = tokens - requested

redis.call("HMSET", key, "tokens", tokens, "last_refill", lastRefill)
redis.call("EXPIRE", key, ttl)

return {tokens, lastRefill}
`)

// RedisStore implements Store on top of a shared Redis instance, so a rate
// limit applies across every process sharing the connection rather than
// just the one that happens to handle a given request.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore builds a RedisStore from an already-connected client, e.g.
// one returned by pkg/redis.Connect.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// ConsumeTokens attempts to consume tokens, evaluating tokenBucketScript
// atomically so the read-modify-write never races across instances.
func (rs *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error) {
	now := time.Now()
	ttlSeconds := int((config.RefillInterval * time.Duration(config.Capacity/config.RefillRate+1)).Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := tokenBucketScript.Run(ctx, rs.client, []string{key},
		config.Capacity, config.RefillRate, config.RefillInterval.Nanoseconds(),
		tokens, now.UnixNano(), ttlSeconds,
	).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	vals, ok := result.([]any)
	if !ok || len(vals) != 2 {
		return 0, time.Time{}, ErrInvalidConfig
	}

	remaining = int(vals[0].(int64))
	lastRefillNanos := vals[1].(int64)
	resetAt = time.Unix(0, lastRefillNanos).Add(config.RefillInterval)

	return remaining, resetAt, nil
}

// Reset clears the bucket for key.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	return rs.client.Del(ctx, key).Err()
}
