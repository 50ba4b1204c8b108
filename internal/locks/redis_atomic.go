package locks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"seatlock/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// AtomicRedisOperations runs the lock table's multi-key operations as Lua
// scripts so that acquire and release are atomic against concurrent holders.
type AtomicRedisOperations struct {
	redis *redis.Client
}

// NewAtomicRedisOperations creates a new atomic Redis operations handler
func NewAtomicRedisOperations(redisClient *redis.Client) *AtomicRedisOperations {
	return &AtomicRedisOperations{
		redis: redisClient,
	}
}

// Lua script for atomic multi-seat lock acquisition.
// Seats pointing at a lock of the same holder move to the new lock; seats
// held by anyone else make the whole acquire fail.
const luaAtomicLockAcquire = `
-- ARGV[1] = key prefix
-- ARGV[2] = lock_id
-- ARGV[3] = holder_id
-- ARGV[4] = show_id
-- ARGV[5] = ttl_seconds
-- ARGV[6] = created_at (unix seconds)
-- ARGV[7..N] = seat keys (row:number)

local prefix = ARGV[1]
local lock_id = ARGV[2]
local holder_id = ARGV[3]
local show_id = ARGV[4]
local ttl = ARGV[5]

local result = {0}
for i = 7, #ARGV do
    local seat_key = prefix .. ":seat:" .. show_id .. ":" .. ARGV[i]
    local owner_lock = redis.call("GET", seat_key)
    if owner_lock then
        local owner = redis.call("HGET", prefix .. ":meta:" .. owner_lock, "holder_id")
        if owner and owner ~= holder_id then
            table.insert(result, ARGV[i])
        end
    end
end

if #result > 1 then
    return result
end

local meta_key = prefix .. ":meta:" .. lock_id
local seats_key = prefix .. ":seats:" .. lock_id

for i = 7, #ARGV do
    local seat_key = prefix .. ":seat:" .. show_id .. ":" .. ARGV[i]
    local previous = redis.call("GET", seat_key)
    if previous and previous ~= lock_id then
        redis.call("SREM", prefix .. ":seats:" .. previous, ARGV[i])
    end
    redis.call("SET", seat_key, lock_id, "EX", ttl)
    redis.call("SADD", seats_key, ARGV[i])
end

redis.call("HSET", meta_key,
    "holder_id", holder_id,
    "show_id", show_id,
    "seat_count", tostring(#ARGV - 6),
    "created_at", ARGV[6]
)
redis.call("EXPIRE", meta_key, ttl)
redis.call("EXPIRE", seats_key, ttl)

return {1, lock_id}
`

// Lua script for atomic lock release. Only seats still pointing at the lock
// are freed, so releasing a lock whose seats moved to a newer lock is safe.
const luaAtomicLockRelease = `
-- ARGV[1] = key prefix
-- ARGV[2] = lock_id
-- ARGV[3] = holder_id ("" skips the owner check)

local prefix = ARGV[1]
local lock_id = ARGV[2]
local meta_key = prefix .. ":meta:" .. lock_id
local seats_key = prefix .. ":seats:" .. lock_id

local holder = redis.call("HGET", meta_key, "holder_id")
if not holder then
    return {0, "lock_not_found"}
end
if ARGV[3] ~= "" and holder ~= ARGV[3] then
    return {0, "not_owner"}
end

local show_id = redis.call("HGET", meta_key, "show_id")
local seats = redis.call("SMEMBERS", seats_key)
local released = 0
for i = 1, #seats do
    local seat_key = prefix .. ":seat:" .. show_id .. ":" .. seats[i]
    if redis.call("GET", seat_key) == lock_id then
        redis.call("DEL", seat_key)
        released = released + 1
    end
end

redis.call("DEL", meta_key, seats_key)

return {1, released}
`

var (
	acquireScript = redis.NewScript(luaAtomicLockAcquire)
	releaseScript = redis.NewScript(luaAtomicLockRelease)
)

// AtomicAcquire atomically locks all seats for holderID under lockID.
// It returns the seat keys held by other parties when the acquire is refused.
func (a *AtomicRedisOperations) AtomicAcquire(ctx context.Context, lockID, holderID, showID string, seatKeys []string, ttl time.Duration) ([]string, error) {
	if a.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	args := make([]interface{}, 0, 6+len(seatKeys))
	args = append(args,
		constants.LOCK_KEY_PREFIX,
		lockID,
		holderID,
		showID,
		strconv.Itoa(int(ttl.Seconds())),
		strconv.FormatInt(time.Now().Unix(), 10),
	)
	for _, key := range seatKeys {
		args = append(args, key)
	}

	result, err := acquireScript.Run(ctx, a.redis, nil, args...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to execute atomic lock acquire: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) < 1 {
		return nil, fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return nil, fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		conflicts := make([]string, 0, len(resultArray)-1)
		for _, v := range resultArray[1:] {
			if key, ok := v.(string); ok {
				conflicts = append(conflicts, key)
			}
		}
		return conflicts, nil
	}

	return nil, nil
}

// AtomicRelease atomically releases a lock. holderID may be empty to skip
// the ownership check. Returns the number of seats freed.
func (a *AtomicRedisOperations) AtomicRelease(ctx context.Context, lockID, holderID string) (int, error) {
	if a.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	result, err := releaseScript.Run(ctx, a.redis, nil, constants.LOCK_KEY_PREFIX, lockID, holderID).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to execute atomic lock release: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return 0, fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		reason, _ := resultArray[1].(string)
		switch reason {
		case "lock_not_found":
			return 0, ErrLockNotFound
		case "not_owner":
			return 0, ErrNotLockOwner
		}
		return 0, fmt.Errorf("failed to release lock: %s", reason)
	}

	releasedCount, ok := resultArray[1].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in Lua script result")
	}

	return int(releasedCount), nil
}

// PreloadScripts loads Lua scripts into Redis so the first call avoids a NOSCRIPT round trip
func (a *AtomicRedisOperations) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if err := acquireScript.Load(ctx, a.redis).Err(); err != nil {
		return fmt.Errorf("failed to load lock acquire script: %w", err)
	}

	if err := releaseScript.Load(ctx, a.redis).Err(); err != nil {
		return fmt.Errorf("failed to load lock release script: %w", err)
	}

	return nil
}
