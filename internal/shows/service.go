package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatlock/internal/locks"
	"seatlock/internal/shared/constants"
	"seatlock/pkg/cache"

	"github.com/google/uuid"
)

// LockReader reports which holder currently holds each seat
type LockReader interface {
	SeatHolders(ctx context.Context, showID string, seatKeys []string) (map[string]string, error)
}

type Service interface {
	GetShow(ctx context.Context, showID string) (*ShowResponse, error)
	GetSeats(ctx context.Context, showID, holderID string) (*SeatsResponse, error)
	CreateShow(ctx context.Context, show *Show, seats []ShowSeat) error

	// SetLockReader wires the lock table in after both services exist
	SetLockReader(reader LockReader)
}

type service struct {
	repo       Repository
	cache      cache.Service
	cacheTTL   time.Duration
	lockReader LockReader
}

// NewService creates the show service. cacheService may be nil.
func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration) Service {
	if cacheTTL <= 0 {
		cacheTTL = constants.TTL_SHOW_DETAIL
	}
	return &service{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
	}
}

func (s *service) SetLockReader(reader LockReader) {
	s.lockReader = reader
}

func (s *service) GetShow(ctx context.Context, showID string) (*ShowResponse, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, ErrInvalidShowID
	}

	fetch := func() (interface{}, error) {
		show, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return toShowResponse(show), nil
	}

	if s.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.(*ShowResponse), nil
	}

	var resp ShowResponse
	if err := s.cache.GetOrSet(ctx, constants.BuildShowDetailKey(showID), s.cacheTTL, fetch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSeats lists the show's seats merged with live holds. Seats held by
// holderID itself are reported available so a client can keep them selected.
func (s *service) GetSeats(ctx context.Context, showID, holderID string) (*SeatsResponse, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, ErrInvalidShowID
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	seats, err := s.repo.GetSeats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	holders := map[string]string{}
	if s.lockReader != nil && len(seats) > 0 {
		keys := make([]string, 0, len(seats))
		for _, seat := range seats {
			if seat.Status == SeatStatusAvailable {
				keys = append(keys, locks.SeatRef{Row: seat.Row, SeatNumber: seat.SeatNumber}.Key())
			}
		}
		holders, err = s.lockReader.SeatHolders(ctx, showID, keys)
		if err != nil {
			return nil, fmt.Errorf("failed to read seat holds: %w", err)
		}
	}

	resp := &SeatsResponse{ShowID: showID, Seats: make([]SeatResponse, 0, len(seats))}
	for _, seat := range seats {
		item := SeatResponse{
			Row:        seat.Row,
			SeatNumber: seat.SeatNumber,
			Price:      seat.Price,
			Status:     AvailabilityAvailable,
		}
		switch {
		case seat.Status == SeatStatusSold:
			item.Status = AvailabilitySold
		default:
			holder, held := holders[locks.SeatRef{Row: seat.Row, SeatNumber: seat.SeatNumber}.Key()]
			if held && (holderID == "" || holder != holderID) {
				item.Status = AvailabilityLocked
			}
		}
		item.IsAvailable = item.Status == AvailabilityAvailable
		resp.Seats = append(resp.Seats, item)
	}

	return resp, nil
}

func (s *service) CreateShow(ctx context.Context, show *Show, seats []ShowSeat) error {
	if err := s.repo.Create(ctx, show, seats); err != nil {
		return fmt.Errorf("failed to create show: %w", err)
	}
	return nil
}

// seatInventory adapts the show repository to the lock service's inventory check
type seatInventory struct {
	repo Repository
}

func NewSeatInventory(repo Repository) locks.SeatInventory {
	return &seatInventory{repo: repo}
}

func (i *seatInventory) CheckSeats(ctx context.Context, showID string, refs []locks.SeatRef) (*locks.InventoryCheck, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return &locks.InventoryCheck{ShowFound: false}, nil
	}

	if _, err := i.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrShowNotFound) {
			return &locks.InventoryCheck{ShowFound: false}, nil
		}
		return nil, err
	}

	seats, err := i.repo.FindSeats(ctx, id, refs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]ShowSeat, len(seats))
	for _, seat := range seats {
		found[locks.SeatRef{Row: seat.Row, SeatNumber: seat.SeatNumber}.Key()] = seat
	}

	check := &locks.InventoryCheck{ShowFound: true}
	for _, ref := range refs {
		seat, ok := found[ref.Key()]
		switch {
		case !ok:
			check.Unknown = append(check.Unknown, ref)
		case seat.Status == SeatStatusSold:
			check.Sold = append(check.Sold, ref)
		}
	}
	return check, nil
}
