package seatmap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"seatlock/internal/client/bookingapi"
)

// Status is a seat's availability as seen by this session
type Status int

const (
	Available Status = iota
	Sold
	LockedByOther
)

func (s Status) String() string {
	switch s {
	case Available:
		return "available"
	case Sold:
		return "sold"
	case LockedByOther:
		return "locked"
	}
	return "unknown"
}

// ParseStatus maps the service's status strings. Unknown values are treated as
// unavailable so a seat is never offered by mistake.
func ParseStatus(s string, isAvailable bool) Status {
	switch strings.ToLower(s) {
	case "available":
		return Available
	case "sold":
		return Sold
	case "locked", "held":
		return LockedByOther
	case "":
		if isAvailable {
			return Available
		}
		return LockedByOther
	}
	return LockedByOther
}

// SeatKey identifies a seat within a show
type SeatKey struct {
	Row    string
	Number int
}

func (k SeatKey) String() string {
	return k.Row + strconv.Itoa(k.Number)
}

// Ref converts the key to its wire form
func (k SeatKey) Ref() bookingapi.SeatRef {
	return bookingapi.SeatRef{Row: k.Row, SeatNumber: k.Number}
}

// ParseSeatKey parses labels like "A1" or "AA12"
func ParseSeatKey(label string) (SeatKey, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	i := strings.IndexFunc(label, unicode.IsDigit)
	if i <= 0 {
		return SeatKey{}, fmt.Errorf("invalid seat %q", label)
	}
	n, err := strconv.Atoi(label[i:])
	if err != nil || n <= 0 {
		return SeatKey{}, fmt.Errorf("invalid seat %q", label)
	}
	return SeatKey{Row: label[:i], Number: n}, nil
}

type Seat struct {
	Key    SeatKey
	Price  float64
	Status Status
}

// SeatMap is the seat inventory of one show. It is safe for concurrent use;
// after loading, only conflict refreshes change it.
type SeatMap struct {
	mu     sync.RWMutex
	showID string
	order  []SeatKey
	seats  map[SeatKey]Seat
}

func New(showID string, seats []Seat) *SeatMap {
	m := &SeatMap{
		showID: showID,
		order:  make([]SeatKey, 0, len(seats)),
		seats:  make(map[SeatKey]Seat, len(seats)),
	}
	for _, s := range seats {
		if _, dup := m.seats[s.Key]; dup {
			continue
		}
		m.order = append(m.order, s.Key)
		m.seats[s.Key] = s
	}
	return m
}

func (m *SeatMap) ShowID() string {
	return m.showID
}

func (m *SeatMap) Get(key SeatKey) (Seat, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.seats[key]
	return s, ok
}

// Seats returns a snapshot in listing order
func (m *SeatMap) Seats() []Seat {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Seat, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.seats[k])
	}
	return out
}

// Rows groups a snapshot by row, rows in first-seen order and seats by number
func (m *SeatMap) Rows() [][]Seat {
	var rows [][]Seat
	index := map[string]int{}
	for _, s := range m.Seats() {
		i, ok := index[s.Key.Row]
		if !ok {
			i = len(rows)
			index[s.Key.Row] = i
			rows = append(rows, nil)
		}
		rows[i] = append(rows[i], s)
	}
	for _, row := range rows {
		sort.Slice(row, func(a, b int) bool { return row[a].Key.Number < row[b].Key.Number })
	}
	return rows
}

// MarkUnavailable records that a seat was found sold or held by someone else.
// Unknown seats and Available are ignored.
func (m *SeatMap) MarkUnavailable(key SeatKey, status Status) {
	if status == Available {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.seats[key]; ok && s.Status != Sold {
		s.Status = status
		m.seats[key] = s
	}
}
