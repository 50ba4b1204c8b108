package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types published by the booking service
const (
	TypeLockAcquired     = "lock.acquired"
	TypeLockReleased     = "lock.released"
	TypeBookingConfirmed = "booking.confirmed"
)

// Event is a domain event. Key routes related events to the same partition.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps a new event with an id and time
func NewEvent(eventType, key string, payload interface{}) *Event {
	return &Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// ToJSON serializes the event
func (e *Event) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", e.Type, err)
	}
	return data, nil
}

// Publisher publishes domain events to a broker
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// LockEventPayload is the payload of lock.* events
type LockEventPayload struct {
	LockID   string   `json:"lock_id"`
	ShowID   string   `json:"show_id"`
	HolderID string   `json:"holder_id"`
	Seats    []string `json:"seats,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// BookingEventPayload is the payload of booking.confirmed
type BookingEventPayload struct {
	BookingID     string   `json:"booking_id"`
	BookingRef    string   `json:"booking_ref"`
	ShowID        string   `json:"show_id"`
	HolderID      string   `json:"holder_id"`
	LockID        string   `json:"lock_id"`
	Seats         []string `json:"seats"`
	TotalPrice    float64  `json:"total_price"`
	PaymentMethod string   `json:"payment_method"`
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event *Event) error { return nil }
func (NoopPublisher) Close() error                                    { return nil }
