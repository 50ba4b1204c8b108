package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"seatlock/internal/shared/config"
	"seatlock/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// Client talks to the booking service REST API. Every call carries its own
// deadline so no caller can block on the service indefinitely.
type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	requestTimeout time.Duration
	releaseTimeout time.Duration
	validate       *validator.Validate
	log            *logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(cfg *config.ClientConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.Token,
		httpClient:     &http.Client{},
		requestTimeout: cfg.RequestTimeout,
		releaseTimeout: cfg.ReleaseTimeout,
		validate:       validator.New(),
		log:            logger.GetDefault(),
	}
	if c.requestTimeout <= 0 {
		c.requestTimeout = 10 * time.Second
	}
	if c.releaseTimeout <= 0 {
		c.releaseTimeout = c.requestTimeout
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

type errorBody struct {
	ErrorKind string         `json:"errorKind"`
	Detail    string         `json:"detail"`
	Seats     []ConflictSeat `json:"seats"`
}

func (c *Client) GetShow(ctx context.Context, showID string) (*Show, error) {
	var show Show
	if err := c.do(ctx, c.requestTimeout, "get show", http.MethodGet, "/shows/"+url.PathEscape(showID), nil, &show); err != nil {
		return nil, err
	}
	return &show, nil
}

func (c *Client) GetSeats(ctx context.Context, showID string) ([]SeatInfo, error) {
	var data struct {
		Seats []SeatInfo `json:"seats"`
	}
	if err := c.do(ctx, c.requestTimeout, "get seats", http.MethodGet, "/shows/"+url.PathEscape(showID)+"/seats", nil, &data); err != nil {
		return nil, err
	}
	return data.Seats, nil
}

// AcquireLock requests a lock covering exactly seats
func (c *Client) AcquireLock(ctx context.Context, showID string, seats []SeatRef) (*LockGrant, error) {
	if showID == "" || len(seats) == 0 {
		return nil, fmt.Errorf("%w: lock needs a show and at least one seat", ErrInvalidRequest)
	}
	for _, s := range seats {
		if err := c.validate.Struct(s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	body := struct {
		ShowID string    `json:"showId"`
		Seats  []SeatRef `json:"seats"`
	}{showID, seats}

	var grant LockGrant
	if err := c.do(ctx, c.requestTimeout, "acquire lock", http.MethodPost, "/locks", body, &grant); err != nil {
		return nil, err
	}
	if grant.LockID == "" {
		return nil, &TransportError{Op: "acquire lock", Err: fmt.Errorf("response has no lockId")}
	}
	return &grant, nil
}

// ReleaseLock releases a lock. The service treats unknown locks as released.
func (c *Client) ReleaseLock(ctx context.Context, lockID string) error {
	if lockID == "" {
		return fmt.Errorf("%w: empty lock id", ErrInvalidRequest)
	}
	return c.do(ctx, c.releaseTimeout, "release lock", http.MethodPost, "/locks/"+url.PathEscape(lockID)+"/release", nil, nil)
}

func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var data struct {
		Booking *Booking `json:"booking"`
	}
	if err := c.do(ctx, c.requestTimeout, "create booking", http.MethodPost, "/bookings", req, &data); err != nil {
		return nil, err
	}
	if data.Booking == nil {
		return nil, &TransportError{Op: "create booking", Err: fmt.Errorf("response has no booking")}
	}
	return data.Booking, nil
}

func (c *Client) do(ctx context.Context, timeout time.Duration, op, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("Booking service call failed", "op", op, "error", err, "duration", time.Since(start))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	c.log.Debug("Booking service call", "op", op, "status", resp.StatusCode, "duration", time.Since(start))

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
		var eb errorBody
		if len(env.Errors) > 0 && json.Unmarshal(env.Errors, &eb) == nil {
			apiErr.Kind = eb.ErrorKind
			apiErr.Detail = eb.Detail
			apiErr.Seats = eb.Seats
		}
		if apiErr.Kind == "" {
			apiErr.Kind = kindForStatus(resp.StatusCode)
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusGone:
		return KindSessionExpired
	case http.StatusPaymentRequired:
		return KindPayment
	default:
		return KindInternal
	}
}
