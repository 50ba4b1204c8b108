package locks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"seatlock/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

type Repository interface {
	// Atomic operations
	Acquire(ctx context.Context, lockID, holderID, showID string, seatKeys []string, ttl time.Duration) (conflicts []string, err error)
	Release(ctx context.Context, lockID, holderID string) (int, error)

	// Reads
	GetLock(ctx context.Context, lockID string) (*LockDetails, error)
	SeatHolders(ctx context.Context, showID string, seatKeys []string) (map[string]string, error) // seatKey -> holderID
}

type repository struct {
	redis  *redis.Client
	atomic *AtomicRedisOperations
}

func NewRepository(redisClient *redis.Client) Repository {
	return &repository{
		redis:  redisClient,
		atomic: NewAtomicRedisOperations(redisClient),
	}
}

func (r *repository) Acquire(ctx context.Context, lockID, holderID, showID string, seatKeys []string, ttl time.Duration) ([]string, error) {
	return r.atomic.AtomicAcquire(ctx, lockID, holderID, showID, seatKeys, ttl)
}

func (r *repository) Release(ctx context.Context, lockID, holderID string) (int, error) {
	return r.atomic.AtomicRelease(ctx, lockID, holderID)
}

func (r *repository) GetLock(ctx context.Context, lockID string) (*LockDetails, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	metaKey := constants.BuildLockMetaKey(lockID)
	pipe := r.redis.Pipeline()
	metaCmd := pipe.HGetAll(ctx, metaKey)
	seatsCmd := pipe.SMembers(ctx, constants.BuildLockSeatsKey(lockID))
	ttlCmd := pipe.TTL(ctx, metaKey)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read lock: %w", err)
	}

	meta := metaCmd.Val()
	if len(meta) == 0 {
		return nil, ErrLockNotFound
	}

	seatCount, _ := strconv.Atoi(meta["seat_count"])
	details := &LockDetails{
		LockID:    lockID,
		HolderID:  meta["holder_id"],
		ShowID:    meta["show_id"],
		SeatCount: seatCount,
		TTL:       ttlCmd.Val(),
	}

	seatKeys := seatsCmd.Val()
	for _, key := range seatKeys {
		ref, err := ParseSeatKey(key)
		if err != nil {
			return nil, err
		}
		details.Seats = append(details.Seats, ref)
	}

	details.Intact = len(seatKeys) == seatCount
	if details.Intact && len(seatKeys) > 0 {
		pointerKeys := make([]string, 0, len(seatKeys))
		for _, key := range seatKeys {
			pointerKeys = append(pointerKeys, constants.BuildSeatLockKey(details.ShowID, key))
		}
		pointers, err := r.redis.MGet(ctx, pointerKeys...).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read seat pointers: %w", err)
		}
		for _, p := range pointers {
			if id, ok := p.(string); !ok || id != lockID {
				details.Intact = false
				break
			}
		}
	}

	return details, nil
}

func (r *repository) SeatHolders(ctx context.Context, showID string, seatKeys []string) (map[string]string, error) {
	holders := make(map[string]string)

	if r.redis == nil || len(seatKeys) == 0 {
		return holders, nil
	}

	pointerKeys := make([]string, 0, len(seatKeys))
	for _, key := range seatKeys {
		pointerKeys = append(pointerKeys, constants.BuildSeatLockKey(showID, key))
	}
	pointers, err := r.redis.MGet(ctx, pointerKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read seat pointers: %w", err)
	}

	lockHolders := make(map[string]string)
	for i, p := range pointers {
		lockID, ok := p.(string)
		if !ok {
			continue
		}
		holder, seen := lockHolders[lockID]
		if !seen {
			holder, err = r.redis.HGet(ctx, constants.BuildLockMetaKey(lockID), "holder_id").Result()
			if err == redis.Nil {
				holder = ""
			} else if err != nil {
				return nil, fmt.Errorf("failed to read lock holder: %w", err)
			}
			lockHolders[lockID] = holder
		}
		if holder != "" {
			holders[seatKeys[i]] = holder
		}
	}

	return holders, nil
}
