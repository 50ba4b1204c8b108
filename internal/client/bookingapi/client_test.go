package bookingapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"seatlock/internal/shared/config"
	"seatlock/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.ClientConfig{
		BaseURL:        srv.URL + "/api/v1/",
		Token:          "tkn",
		RequestTimeout: time.Second,
		ReleaseTimeout: time.Second,
	}, WithLogger(logger.Discard()))
}

func writeEnvelope(w http.ResponseWriter, code int, data, errs interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	status := "success"
	if code >= 300 {
		status = "error"
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      status,
		"status_code": code,
		"message":     http.StatusText(code),
		"data":        data,
		"errors":      errs,
	})
}

func TestAcquireLock(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/locks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tkn" {
			t.Errorf("Authorization = %q", got)
		}
		var body struct {
			ShowID string    `json:"showId"`
			Seats  []SeatRef `json:"seats"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.ShowID != "show-1" || len(body.Seats) != 2 || body.Seats[1].Row != "A" || body.Seats[1].SeatNumber != 2 {
			t.Errorf("body = %+v", body)
		}
		writeEnvelope(w, http.StatusCreated, map[string]interface{}{"lockId": "L1", "expiresAt": time.Now().Add(time.Minute)}, nil)
	})

	grant, err := client.AcquireLock(context.Background(), "show-1", []SeatRef{{Row: "A", SeatNumber: 1}, {Row: "A", SeatNumber: 2}})
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}
	if grant.LockID != "L1" {
		t.Errorf("LockID = %q, want L1", grant.LockID)
	}
}

func TestAcquireLockConflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, nil, map[string]interface{}{
			"errorKind": "conflict",
			"detail":    "seats unavailable: A4(sold)",
			"seats":     []map[string]interface{}{{"row": "A", "seatNumber": 4, "status": "sold"}},
		})
	})

	_, err := client.AcquireLock(context.Background(), "show-1", []SeatRef{{Row: "A", SeatNumber: 4}})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Kind != KindConflict || len(apiErr.Seats) != 1 || apiErr.Seats[0].Status != "sold" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if KindOf(err) != KindConflict {
		t.Errorf("KindOf() = %q", KindOf(err))
	}
}

func TestValidationBeforeNetwork(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	if _, err := client.AcquireLock(context.Background(), "show-1", nil); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("AcquireLock(no seats) error = %v", err)
	}
	if _, err := client.CreateBooking(context.Background(), BookingRequest{ShowID: "s", LockID: "L"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("CreateBooking(invalid) error = %v", err)
	}
	if err := client.ReleaseLock(context.Background(), ""); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("ReleaseLock(\"\") error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("server called %d times", n)
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(&config.ClientConfig{BaseURL: srv.URL, RequestTimeout: 50 * time.Millisecond}, WithLogger(logger.Discard()))
	_, err := client.GetShow(context.Background(), "show-1")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if !te.Timeout() {
		t.Errorf("Timeout() = false for %v", te.Err)
	}
}

func TestCreateBooking(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		data     interface{}
		errs     interface{}
		wantKind string
	}{
		{
			name: "success",
			code: http.StatusCreated,
			data: map[string]interface{}{"booking": map[string]interface{}{"id": "b1", "bookingRef": "BK1", "totalPrice": 250}},
		},
		{name: "session expired", code: http.StatusGone, errs: map[string]string{"errorKind": "session_expired"}, wantKind: KindSessionExpired},
		{name: "payment", code: http.StatusPaymentRequired, errs: map[string]string{"errorKind": "payment"}, wantKind: KindPayment},
		{name: "kind from status", code: http.StatusInternalServerError, wantKind: KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, tt.code, tt.data, tt.errs)
			})
			booking, err := client.CreateBooking(context.Background(), BookingRequest{
				ShowID:        "show-1",
				Seats:         []BookingSeat{{Row: "A", SeatNumber: 2, Price: 250}},
				PaymentMethod: "card",
				LockID:        "L3",
			})
			if tt.wantKind == "" {
				if err != nil || booking.BookingRef != "BK1" {
					t.Fatalf("CreateBooking() = %+v, %v", booking, err)
				}
				return
			}
			if KindOf(err) != tt.wantKind {
				t.Errorf("KindOf(%v) = %q, want %q", err, KindOf(err), tt.wantKind)
			}
		})
	}
}

func TestGetSeatsAndRelease(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/shows/show-1/seats":
			writeEnvelope(w, http.StatusOK, map[string]interface{}{
				"showId": "show-1",
				"seats": []map[string]interface{}{
					{"row": "A", "seatNumber": 1, "isAvailable": true, "price": 200, "status": "available"},
					{"row": "A", "seatNumber": 2, "isAvailable": false, "price": 200, "status": "sold"},
				},
			}, nil)
		case "/api/v1/locks/L1/release":
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"lockId": "L1", "released": false}, nil)
		default:
			writeEnvelope(w, http.StatusNotFound, nil, map[string]string{"errorKind": "not_found"})
		}
	})
	ctx := context.Background()

	seats, err := client.GetSeats(ctx, "show-1")
	if err != nil || len(seats) != 2 || seats[1].IsAvailable {
		t.Fatalf("GetSeats() = %+v, %v", seats, err)
	}
	if err := client.ReleaseLock(ctx, "L1"); err != nil {
		t.Errorf("ReleaseLock() error = %v", err)
	}
	if _, err := client.GetShow(ctx, "missing"); KindOf(err) != KindNotFound {
		t.Errorf("GetShow(missing) error = %v", err)
	}
}
