package locks

import "time"

// LockResponse is returned by POST /locks and GET /locks/:lockId
type LockResponse struct {
	LockID     string    `json:"lockId"`
	ShowID     string    `json:"showId"`
	Seats      []SeatRef `json:"seats"`
	ExpiresAt  time.Time `json:"expiresAt"`
	TTLSeconds int       `json:"ttlSeconds"`
}

// ReleaseResponse acknowledges POST /locks/:lockId/release
type ReleaseResponse struct {
	LockID   string `json:"lockId"`
	Released bool   `json:"released"`
}
