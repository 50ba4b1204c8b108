package response

type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // Human-readable message
	Data       interface{} `json:"data,omitempty"`   // Payload for success
	Errors     interface{} `json:"errors,omitempty"` // Validation or error details
}

// ErrorDetail is the machine-readable error body of the booking contract.
// Seats is only set for conflicts.
type ErrorDetail struct {
	ErrorKind string      `json:"errorKind"`
	Detail    string      `json:"detail,omitempty"`
	Seats     interface{} `json:"seats,omitempty"`
}

// Error kinds understood by booking clients
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
