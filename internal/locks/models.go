package locks

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SeatRef identifies a seat within a show
type SeatRef struct {
	Row        string `json:"row" binding:"required,max=8"`
	SeatNumber int    `json:"seatNumber" binding:"required,min=1"`
}

// Key is the seat's identity inside the lock table ("row:number")
func (s SeatRef) Key() string {
	return s.Row + ":" + strconv.Itoa(s.SeatNumber)
}

func (s SeatRef) String() string {
	return s.Row + strconv.Itoa(s.SeatNumber)
}

// ParseSeatKey reverses SeatRef.Key
func ParseSeatKey(key string) (SeatRef, error) {
	i := strings.LastIndex(key, ":")
	if i <= 0 {
		return SeatRef{}, fmt.Errorf("malformed seat key %q", key)
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return SeatRef{}, fmt.Errorf("malformed seat key %q: %w", key, err)
	}
	return SeatRef{Row: key[:i], SeatNumber: n}, nil
}

// LockDetails is the lock table's view of a single lock
type LockDetails struct {
	LockID    string
	HolderID  string
	ShowID    string
	Seats     []SeatRef
	SeatCount int // number of seats the lock was granted with
	TTL       time.Duration

	// Intact is false once any seat of the lock has been transferred to
	// another lock or has expired independently.
	Intact bool
}

// Covers reports whether the lock holds exactly the given seats
func (d *LockDetails) Covers(seats []SeatRef) bool {
	if len(seats) != len(d.Seats) {
		return false
	}
	held := make(map[string]struct{}, len(d.Seats))
	for _, s := range d.Seats {
		held[s.Key()] = struct{}{}
	}
	for _, s := range seats {
		if _, ok := held[s.Key()]; !ok {
			return false
		}
	}
	return true
}

// Seat statuses reported in conflicts
const (
	SeatStatusSold = "sold"
	SeatStatusHeld = "locked"
)

// ConflictSeat is a seat that blocked an acquire
type ConflictSeat struct {
	Row        string `json:"row"`
	SeatNumber int    `json:"seatNumber"`
	Status     string `json:"status"`
}

// InventoryCheck is the result of checking requested seats against the show inventory
type InventoryCheck struct {
	ShowFound bool
	Unknown   []SeatRef
	Sold      []SeatRef
}
