package session

import (
	"time"

	"seatlock/internal/client/seatmap"
)

// State is the coordinator's lifecycle state
type State int

const (
	Empty State = iota
	Settling
	Settled
	Terminal
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Settling:
		return "settling"
	case Settled:
		return "settled"
	case Terminal:
		return "terminal"
	}
	return "unknown"
}

type HandleStatus int

const (
	Pending HandleStatus = iota
	Active
	Released
	Expired
)

func (s HandleStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Released:
		return "released"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// LockHandle is the client side of a server lock. Generation is the fence
// value of the request that produced it.
type LockHandle struct {
	Token      string
	Generation uint64
	Seats      []seatmap.SeatKey
	Status     HandleStatus
	ExpiresAt  time.Time
}

func (h *LockHandle) clone() *LockHandle {
	if h == nil {
		return nil
	}
	c := *h
	c.Seats = append([]seatmap.SeatKey(nil), h.Seats...)
	return &c
}

// covers reports whether the handle's seats equal seats as a set
func (h *LockHandle) covers(seats []seatmap.SeatKey) bool {
	return sameSet(h.Seats, seats)
}

func sameSet(a, b []seatmap.SeatKey) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[seatmap.SeatKey]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	for _, k := range b {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}

func contains(seats []seatmap.SeatKey, key seatmap.SeatKey) bool {
	for _, k := range seats {
		if k == key {
			return true
		}
	}
	return false
}

func without(seats []seatmap.SeatKey, key seatmap.SeatKey) []seatmap.SeatKey {
	out := make([]seatmap.SeatKey, 0, len(seats))
	for _, k := range seats {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

// Snapshot is a consistent copy of the coordinator state
type Snapshot struct {
	State      State
	Selection  []seatmap.SeatKey
	Handle     *LockHandle
	Generation uint64 // latest issued
	Committing bool
}
