package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatlock/pkg/events"
	"seatlock/pkg/logger"

	"github.com/google/uuid"
)

// SeatInventory checks requested seats against the show's persisted inventory
// (implemented by the shows package, declared here to avoid an import cycle)
type SeatInventory interface {
	CheckSeats(ctx context.Context, showID string, seats []SeatRef) (*InventoryCheck, error)
}

type Service interface {
	AcquireLock(ctx context.Context, holderID string, req AcquireLockRequest) (*LockResponse, error)
	ReleaseLock(ctx context.Context, holderID, lockID string) (*ReleaseResponse, error)
	GetLock(ctx context.Context, holderID, lockID string) (*LockResponse, error)

	// Used by the bookings service
	GetLockDetails(ctx context.Context, lockID string) (*LockDetails, error)
	ConsumeLock(ctx context.Context, lockID string) error

	// Used by the shows service
	SeatHolders(ctx context.Context, showID string, seatKeys []string) (map[string]string, error)
}

type service struct {
	repo      Repository
	inventory SeatInventory
	publisher events.Publisher
	ttl       time.Duration
}

func NewService(repo Repository, inventory SeatInventory, publisher events.Publisher, ttl time.Duration) Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service{
		repo:      repo,
		inventory: inventory,
		publisher: publisher,
		ttl:       ttl,
	}
}

func (s *service) AcquireLock(ctx context.Context, holderID string, req AcquireLockRequest) (*LockResponse, error) {
	if len(req.Seats) == 0 {
		return nil, fmt.Errorf("%w: no seats specified", ErrInvalidSeats)
	}

	seatKeys := make([]string, 0, len(req.Seats))
	seen := make(map[string]bool, len(req.Seats))
	for _, seat := range req.Seats {
		key := seat.Key()
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate seat %s", ErrInvalidSeats, seat)
		}
		seen[key] = true
		seatKeys = append(seatKeys, key)
	}

	check, err := s.inventory.CheckSeats(ctx, req.ShowID, req.Seats)
	if err != nil {
		return nil, fmt.Errorf("failed to check seat inventory: %w", err)
	}
	if !check.ShowFound {
		return nil, ErrShowNotFound
	}
	if len(check.Unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown seats %v", ErrInvalidSeats, check.Unknown)
	}
	if len(check.Sold) > 0 {
		conflict := &ConflictError{}
		for _, seat := range check.Sold {
			conflict.Seats = append(conflict.Seats, ConflictSeat{Row: seat.Row, SeatNumber: seat.SeatNumber, Status: SeatStatusSold})
		}
		return nil, conflict
	}

	lockID := uuid.New().String()
	conflicts, err := s.repo.Acquire(ctx, lockID, holderID, req.ShowID, seatKeys, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if len(conflicts) > 0 {
		conflict := &ConflictError{}
		for _, key := range conflicts {
			ref, err := ParseSeatKey(key)
			if err != nil {
				return nil, err
			}
			conflict.Seats = append(conflict.Seats, ConflictSeat{Row: ref.Row, SeatNumber: ref.SeatNumber, Status: SeatStatusHeld})
		}
		return nil, conflict
	}

	logger.GetDefault().WithHolder(holderID).LogLockAcquired(ctx, lockID, 0, len(seatKeys))
	s.publish(ctx, events.TypeLockAcquired, req.ShowID, events.LockEventPayload{
		LockID:   lockID,
		ShowID:   req.ShowID,
		HolderID: holderID,
		Seats:    seatKeys,
	})

	return &LockResponse{
		LockID:     lockID,
		ShowID:     req.ShowID,
		Seats:      req.Seats,
		ExpiresAt:  time.Now().Add(s.ttl).UTC(),
		TTLSeconds: int(s.ttl.Seconds()),
	}, nil
}

// ReleaseLock is idempotent: releasing an unknown or expired lock succeeds.
func (s *service) ReleaseLock(ctx context.Context, holderID, lockID string) (*ReleaseResponse, error) {
	released, err := s.repo.Release(ctx, lockID, holderID)
	if errors.Is(err, ErrLockNotFound) {
		return &ReleaseResponse{LockID: lockID, Released: false}, nil
	}
	if err != nil {
		return nil, err
	}

	logger.GetDefault().WithHolder(holderID).LogLockReleased(ctx, lockID, "client")
	s.publish(ctx, events.TypeLockReleased, lockID, events.LockEventPayload{
		LockID:   lockID,
		HolderID: holderID,
		Reason:   fmt.Sprintf("released %d seats", released),
	})

	return &ReleaseResponse{LockID: lockID, Released: true}, nil
}

func (s *service) GetLock(ctx context.Context, holderID, lockID string) (*LockResponse, error) {
	details, err := s.repo.GetLock(ctx, lockID)
	if err != nil {
		return nil, err
	}
	if details.HolderID != holderID {
		return nil, ErrNotLockOwner
	}
	return &LockResponse{
		LockID:     details.LockID,
		ShowID:     details.ShowID,
		Seats:      details.Seats,
		ExpiresAt:  time.Now().Add(details.TTL).UTC(),
		TTLSeconds: int(details.TTL.Seconds()),
	}, nil
}

func (s *service) GetLockDetails(ctx context.Context, lockID string) (*LockDetails, error) {
	return s.repo.GetLock(ctx, lockID)
}

// ConsumeLock drops a lock whose seats were turned into a booking
func (s *service) ConsumeLock(ctx context.Context, lockID string) error {
	_, err := s.repo.Release(ctx, lockID, "")
	if err != nil && !errors.Is(err, ErrLockNotFound) {
		return err
	}
	logger.GetDefault().LogLockReleased(ctx, lockID, "consumed")
	return nil
}

func (s *service) SeatHolders(ctx context.Context, showID string, seatKeys []string) (map[string]string, error) {
	return s.repo.SeatHolders(ctx, showID, seatKeys)
}

// publish is best effort: a broker outage must not fail lock operations
func (s *service) publish(ctx context.Context, eventType, key string, payload interface{}) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, key, payload)); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to publish lock event", err, map[string]interface{}{
			"type": eventType,
		})
	}
}
