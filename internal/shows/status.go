package shows

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusSold      SeatStatus = "SOLD"
)

func (s SeatStatus) IsValid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusSold:
		return true
	}
	return false
}

func (s SeatStatus) String() string {
	return string(s)
}

// Availability values reported to clients in the seat listing
const (
	AvailabilityAvailable = "available"
	AvailabilitySold      = "sold"
	AvailabilityLocked    = "locked"
)
