package locks

import (
	"errors"
	"strings"
)

var (
	ErrLockNotFound = errors.New("lock not found or expired")
	ErrNotLockOwner = errors.New("lock belongs to a different holder")
	ErrShowNotFound = errors.New("show not found")
	ErrInvalidSeats = errors.New("invalid seat selection")
)

// ConflictError is returned when some requested seats are sold or held by
// another party. Use errors.As to read the seats.
type ConflictError struct {
	Seats []ConflictSeat
}

func (e *ConflictError) Error() string {
	labels := make([]string, 0, len(e.Seats))
	for _, s := range e.Seats {
		labels = append(labels, SeatRef{Row: s.Row, SeatNumber: s.SeatNumber}.String()+"("+s.Status+")")
	}
	return "seats unavailable: " + strings.Join(labels, ", ")
}
