package session

import (
	"context"
	"errors"
	"strings"

	"seatlock/internal/client/bookingapi"
	"seatlock/internal/client/seatmap"
)

// BookingIntent is what the submitter sends to commit a selection
type BookingIntent struct {
	ShowID        string
	Seats         []bookingapi.BookingSeat
	PaymentMethod string
	LockID        string
}

func (i BookingIntent) request() bookingapi.BookingRequest {
	return bookingapi.BookingRequest{
		ShowID:        i.ShowID,
		Seats:         i.Seats,
		PaymentMethod: i.PaymentMethod,
		LockID:        i.LockID,
	}
}

type BookingResult struct {
	Intent  BookingIntent
	Booking *bookingapi.Booking
}

// Submitter commits a coordinator's selection and lock as a booking
type Submitter struct {
	coord *Coordinator
}

func NewSubmitter(coord *Coordinator) *Submitter {
	return &Submitter{coord: coord}
}

// Submit books the settled selection under the active lock.
//
// On success the lock is consumed by the booking and the session ends. An
// expired session clears the selection; the user has to pick seats again.
// Every other failure keeps the selection and lock so the submit can be
// retried.
func (s *Submitter) Submit(ctx context.Context, paymentMethod string) (*BookingResult, error) {
	c := s.coord

	c.mu.Lock()
	intent, err := s.intentLocked(paymentMethod)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	handle := c.handle
	c.committing = true
	c.mu.Unlock()

	booking, callErr := c.service.CreateBooking(ctx, intent.request())
	if callErr == nil && booking == nil {
		callErr = errors.New("empty booking response")
	}

	c.mu.Lock()
	c.committing = false

	if callErr == nil {
		// The service consumed the lock; nothing to release.
		if c.handle == handle {
			c.handle = nil
		}
		c.selection = nil
		c.pending = nil
		c.terminal = true
		c.latest++
		c.mu.Unlock()

		c.log.InfoContext(ctx, "Booking confirmed",
			"booking_id", booking.ID,
			"booking_ref", booking.BookingRef,
			"seats", len(intent.Seats),
		)
		return &BookingResult{Intent: intent, Booking: booking}, nil
	}

	sessErr := classify(opSubmit, callErr)
	if sessErr.Kind == KindSessionExpired && c.handle == handle && !c.terminal {
		handle.Status = Expired
		c.selection = nil
	}
	c.mu.Unlock()

	if sessErr.Kind == KindLockConflict {
		c.refreshConflicts(callErr)
	}
	return nil, sessErr
}

// intentLocked builds the booking intent from the settled state. Callers hold mu.
func (s *Submitter) intentLocked(paymentMethod string) (BookingIntent, error) {
	c := s.coord
	if err := c.checkMutable(opSubmit); err != nil {
		return BookingIntent{}, err
	}
	if c.pending != nil {
		return BookingIntent{}, validationError(opSubmit, "selection is still being locked")
	}
	if len(c.selection) == 0 {
		return BookingIntent{}, validationError(opSubmit, "no seats selected")
	}
	if c.handle == nil || c.handle.Status != Active || !c.handle.covers(c.selection) {
		return BookingIntent{}, validationError(opSubmit, "selection is not locked")
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return BookingIntent{}, validationError(opSubmit, "payment method is required")
	}

	intent := BookingIntent{
		ShowID:        c.showID,
		PaymentMethod: paymentMethod,
		LockID:        c.handle.Token,
		Seats:         make([]bookingapi.BookingSeat, 0, len(c.selection)),
	}
	for _, key := range c.selection {
		seat, ok := c.seatMap.Get(key)
		if !ok {
			return BookingIntent{}, validationError(opSubmit, "seat %s does not exist", key)
		}
		intent.Seats = append(intent.Seats, bookingSeat(seat))
	}
	return intent, nil
}

func bookingSeat(seat seatmap.Seat) bookingapi.BookingSeat {
	return bookingapi.BookingSeat{
		Row:        seat.Key.Row,
		SeatNumber: seat.Key.Number,
		Price:      seat.Price,
	}
}
