package constants

import "time"

// Redis key layout for the booking service.
// Pattern: seatlock:{module}:{kind}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour // show details
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "seatlock"
)

// ================== SHOWS MODULE ==================

const (
	CACHE_KEY_SHOW_DETAIL = CACHE_PREFIX + ":shows:detail:uuid:" // + show-id
)

const (
	TTL_SHOW_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== LOCKS MODULE ==================

// Lock table keys. The Lua scripts in internal/locks build the same keys
// from LOCK_KEY_PREFIX, so changing one side means changing both.
const (
	LOCK_KEY_PREFIX = CACHE_PREFIX + ":locks"

	LOCK_KEY_META  = LOCK_KEY_PREFIX + ":meta:"  // + lock-id            (hash)
	LOCK_KEY_SEATS = LOCK_KEY_PREFIX + ":seats:" // + lock-id            (set of seat keys)
	LOCK_KEY_SEAT  = LOCK_KEY_PREFIX + ":seat:"  // + show-id:row:number (string -> lock-id)
)

// ================== RATE LIMIT ==================

const (
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit"
)

// ================== HELPER FUNCTIONS ==================

func BuildShowDetailKey(showID string) string {
	return CACHE_KEY_SHOW_DETAIL + showID
}

func BuildLockMetaKey(lockID string) string {
	return LOCK_KEY_META + lockID
}

func BuildLockSeatsKey(lockID string) string {
	return LOCK_KEY_SEATS + lockID
}

// BuildSeatLockKey is the per-seat pointer to the lock currently holding it.
func BuildSeatLockKey(showID, seatKey string) string {
	return LOCK_KEY_SEAT + showID + ":" + seatKey
}
