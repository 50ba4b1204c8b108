package bookingapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Error kinds reported by the booking service in errors.errorKind
const (
	KindValidation     = "validation"
	KindConflict       = "conflict"
	KindNotFound       = "not_found"
	KindSessionExpired = "session_expired"
	KindPayment        = "payment"
	KindBookingFailed  = "booking_failed"
	KindUnauthorized   = "unauthorized"
	KindInternal       = "internal"
)

// ErrInvalidRequest is returned before any network call when a request fails validation
var ErrInvalidRequest = errors.New("invalid request")

// ConflictSeat is a seat reported as blocking a lock request
type ConflictSeat struct {
	Row        string `json:"row"`
	SeatNumber int    `json:"seatNumber"`
	Status     string `json:"status"` // sold or locked
}

// APIError is a non-2xx answer from the booking service
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
	Detail     string
	Seats      []ConflictSeat
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "booking service: %d", e.StatusCode)
	if e.Kind != "" {
		b.WriteString(" " + e.Kind)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Detail != "" {
		b.WriteString(" (" + e.Detail + ")")
	}
	return b.String()
}

// TransportError is a request that produced no usable answer
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// KindOf returns the service error kind of err, or "" if err is not an *APIError
func KindOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
