package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seatlock/internal/client/bookingapi"
	"seatlock/internal/client/seatmap"
)

// Kind classifies session errors. Every kind leaves the session in a
// well-defined state; none is fatal.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindLockConflict
	KindNetwork
	KindTimeout
	KindSessionExpired
	KindPayment
	KindBookingFailure
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindLockConflict:
		return "lock conflict"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindSessionExpired:
		return "session expired"
	case KindPayment:
		return "payment"
	case KindBookingFailure:
		return "booking failure"
	case KindNotFound:
		return "not found"
	}
	return "unknown"
}

// Error is returned by every Coordinator and Submitter operation.
// Match the kind with errors.Is against the Err* values.
type Error struct {
	Kind  Kind
	Op    string
	Seats []seatmap.SeatKey // conflicting seats, for KindLockConflict
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op + ": ")
	}
	b.WriteString(e.Kind.String())
	if len(e.Seats) > 0 {
		labels := make([]string, 0, len(e.Seats))
		for _, s := range e.Seats {
			labels = append(labels, s.String())
		}
		b.WriteString(" [" + strings.Join(labels, ", ") + "]")
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches kind sentinels such as ErrLockConflict
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrLockConflict   = &Error{Kind: KindLockConflict}
	ErrNetwork        = &Error{Kind: KindNetwork}
	ErrTimeout        = &Error{Kind: KindTimeout}
	ErrSessionExpired = &Error{Kind: KindSessionExpired}
	ErrPayment        = &Error{Kind: KindPayment}
	ErrBookingFailure = &Error{Kind: KindBookingFailure}
	ErrNotFound       = &Error{Kind: KindNotFound}
)

func validationError(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// classify maps a booking service error to a session error. Service kinds
// without a session equivalent count as network failures for lock calls and
// as booking failures for submits.
func classify(op string, err error) *Error {
	var sessErr *Error
	if errors.As(err, &sessErr) {
		return sessErr
	}

	e := &Error{Op: op, Err: err}

	var apiErr *bookingapi.APIError
	var transportErr *bookingapi.TransportError
	switch {
	case errors.Is(err, bookingapi.ErrInvalidRequest):
		e.Kind = KindValidation
	case errors.As(err, &apiErr):
		switch apiErr.Kind {
		case bookingapi.KindConflict:
			e.Kind = KindLockConflict
			for _, s := range apiErr.Seats {
				e.Seats = append(e.Seats, seatmap.SeatKey{Row: s.Row, Number: s.SeatNumber})
			}
		case bookingapi.KindValidation:
			e.Kind = KindValidation
		case bookingapi.KindNotFound:
			e.Kind = KindNotFound
		case bookingapi.KindSessionExpired:
			e.Kind = KindSessionExpired
		case bookingapi.KindPayment:
			e.Kind = KindPayment
		case bookingapi.KindBookingFailed:
			e.Kind = KindBookingFailure
		default:
			if op == opSubmit {
				e.Kind = KindBookingFailure
			} else {
				e.Kind = KindNetwork
			}
		}
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			e.Kind = KindTimeout
		} else {
			e.Kind = KindNetwork
		}
	case errors.Is(err, context.DeadlineExceeded):
		e.Kind = KindTimeout
	case errors.Is(err, seatmap.ErrNotFound):
		e.Kind = KindNotFound
	default:
		e.Kind = KindNetwork
	}
	return e
}

// Classify converts any error from this package's collaborators (loader,
// booking client) to an *Error, for callers that report them uniformly.
func Classify(op string, err error) *Error {
	if err == nil {
		return nil
	}
	return classify(op, err)
}

// conflictStatuses reads the per-seat status of a conflict answer
func conflictStatuses(err error) map[seatmap.SeatKey]seatmap.Status {
	var apiErr *bookingapi.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	out := make(map[seatmap.SeatKey]seatmap.Status, len(apiErr.Seats))
	for _, s := range apiErr.Seats {
		status := seatmap.LockedByOther
		if s.Status == "sold" {
			status = seatmap.Sold
		}
		out[seatmap.SeatKey{Row: s.Row, Number: s.SeatNumber}] = status
	}
	return out
}
