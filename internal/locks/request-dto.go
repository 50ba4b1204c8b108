package locks

// AcquireLockRequest is the body of POST /locks
type AcquireLockRequest struct {
	ShowID string    `json:"showId" binding:"required,uuid"`
	Seats  []SeatRef `json:"seats" binding:"required,min=1,max=10,dive"`
}
