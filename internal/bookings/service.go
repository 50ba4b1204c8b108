package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"seatlock/internal/locks"
	"seatlock/internal/shows"
	"seatlock/pkg/events"
	"seatlock/pkg/logger"

	"github.com/google/uuid"
)

// LockService is the part of the lock service bookings depend on
type LockService interface {
	GetLockDetails(ctx context.Context, lockID string) (*locks.LockDetails, error)
	ConsumeLock(ctx context.Context, lockID string) error
}

// SeatCatalog resolves persisted seats and their prices
type SeatCatalog interface {
	FindSeats(ctx context.Context, showID uuid.UUID, refs []locks.SeatRef) ([]shows.ShowSeat, error)
}

type Service interface {
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, userID string, bookingID uuid.UUID) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, query BookingListQuery) (*BookingListResponse, error)
}

type service struct {
	repo      Repository
	locks     LockService
	catalog   SeatCatalog
	gateway   PaymentGateway
	publisher events.Publisher
}

func NewService(repo Repository, lockService LockService, catalog SeatCatalog, gateway PaymentGateway, publisher events.Publisher) Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service{
		repo:      repo,
		locks:     lockService,
		catalog:   catalog,
		gateway:   gateway,
		publisher: publisher,
	}
}

// CreateBooking turns a valid seat lock into a confirmed, paid booking.
// The lock must belong to userID, still be intact and cover exactly the
// requested seats; it is consumed on success.
func (s *service) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error) {
	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid show id", ErrInvalidBooking)
	}

	refs := make([]locks.SeatRef, 0, len(req.Seats))
	requested := make(map[string]BookingSeatRequest, len(req.Seats))
	for _, seat := range req.Seats {
		ref := locks.SeatRef{Row: seat.Row, SeatNumber: seat.SeatNumber}
		if _, dup := requested[ref.Key()]; dup {
			return nil, fmt.Errorf("%w: duplicate seat %s", ErrInvalidBooking, ref)
		}
		requested[ref.Key()] = seat
		refs = append(refs, ref)
	}

	// Step 1: Validate the lock
	lock, err := s.locks.GetLockDetails(ctx, req.LockID)
	if err != nil {
		if errors.Is(err, locks.ErrLockNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	if lock.HolderID != userID {
		return nil, fmt.Errorf("%w: lock belongs to another user", ErrInvalidBooking)
	}
	if lock.ShowID != req.ShowID {
		return nil, fmt.Errorf("%w: lock is for show %s", ErrInvalidBooking, lock.ShowID)
	}
	if !lock.Intact {
		return nil, ErrSessionExpired
	}
	if !lock.Covers(refs) {
		return nil, fmt.Errorf("%w: lock does not cover the requested seats", ErrInvalidBooking)
	}

	// Step 2: Check prices against the inventory
	seats, err := s.catalog.FindSeats(ctx, showID, refs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	if len(seats) != len(refs) {
		return nil, fmt.Errorf("%w: unknown seats requested", ErrInvalidBooking)
	}

	var total float64
	bookingSeats := make([]BookingSeat, 0, len(seats))
	for _, seat := range seats {
		ref := locks.SeatRef{Row: seat.Row, SeatNumber: seat.SeatNumber}
		if seat.Status == shows.SeatStatusSold {
			return nil, ErrSeatsUnavailable
		}
		if math.Abs(requested[ref.Key()].Price-seat.Price) > 0.005 {
			return nil, fmt.Errorf("%w: price of seat %s is %.2f", ErrInvalidBooking, ref, seat.Price)
		}
		total += seat.Price
		bookingSeats = append(bookingSeats, BookingSeat{
			ShowID:     showID,
			Row:        seat.Row,
			SeatNumber: seat.SeatNumber,
			Price:      seat.Price,
		})
	}

	bookingRef, err := generateBookingReference()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}

	booking := &Booking{
		ID:            uuid.New(),
		BookingRef:    bookingRef,
		UserID:        userID,
		ShowID:        showID,
		LockID:        req.LockID,
		TotalSeats:    len(bookingSeats),
		TotalPrice:    total,
		PaymentMethod: req.PaymentMethod,
		Status:        StatusConfirmed,
		Seats:         bookingSeats,
	}

	// Step 3: Sell the seats and charge inside one transaction
	charge := func() (string, error) {
		receipt, err := s.gateway.Charge(ctx, PaymentRequest{
			BookingRef: bookingRef,
			Method:     req.PaymentMethod,
			Amount:     total,
		})
		if err != nil {
			return "", err
		}
		return receipt.Reference, nil
	}
	if err := s.repo.CreateBooking(ctx, booking, charge); err != nil {
		switch {
		case errors.Is(err, ErrSeatsUnavailable), errors.Is(err, ErrPaymentFailed):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
		}
	}

	// Step 4: The lock has served its purpose
	if err := s.locks.ConsumeLock(ctx, req.LockID); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to consume lock after booking", err, map[string]interface{}{
			"lock_id":    req.LockID,
			"booking_id": booking.ID.String(),
		})
	}

	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), req.ShowID, userID)

	seatKeys := make([]string, 0, len(refs))
	for _, ref := range refs {
		seatKeys = append(seatKeys, ref.Key())
	}
	event := events.NewEvent(events.TypeBookingConfirmed, req.ShowID, events.BookingEventPayload{
		BookingID:     booking.ID.String(),
		BookingRef:    booking.BookingRef,
		ShowID:        req.ShowID,
		HolderID:      userID,
		LockID:        req.LockID,
		Seats:         seatKeys,
		TotalPrice:    total,
		PaymentMethod: req.PaymentMethod,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to publish booking event", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
	}

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	return toBookingResponse(booking), nil
}

func (s *service) GetBooking(ctx context.Context, userID string, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	// Other users' bookings are reported as missing
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return toBookingResponse(booking), nil
}

func (s *service) GetUserBookings(ctx context.Context, userID string, query BookingListQuery) (*BookingListResponse, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	bookings, total, err := s.repo.GetUserBookings(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	resp := &BookingListResponse{
		Bookings:   make([]BookingResponse, 0, len(bookings)),
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
	}
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, *toBookingResponse(&bookings[i]))
	}
	return resp, nil
}

// generateBookingReference generates a reference like BK20261018QWERTY
func generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return "BK" + timestamp + string(randomPart), nil
}
