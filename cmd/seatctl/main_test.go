package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"seatlock/internal/client/bookingapi"
	"seatlock/internal/shared/config"
	"seatlock/internal/shared/utils/response"
	"seatlock/pkg/logger"

	"github.com/gin-gonic/gin"
)

// bookingStub is an in-memory booking service speaking the HTTP contract
type bookingStub struct {
	mu       sync.Mutex
	nextLock int
	granted  []string
	released []string
	booked   []bookingapi.BookingRequest
}

func (s *bookingStub) handler() http.Handler {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	engine.GET("/shows/:showId", func(c *gin.Context) {
		response.RespondJSON(c, "success", http.StatusOK, "show", bookingapi.Show{
			ID:         c.Param("showId"),
			MovieTitle: "Interstellar",
			VenueName:  "PVR Phoenix",
			StartsAt:   time.Date(2026, 10, 20, 18, 30, 0, 0, time.UTC),
			Price:      200,
		}, nil)
	})
	engine.GET("/shows/:showId/seats", func(c *gin.Context) {
		var seats []bookingapi.SeatInfo
		for n := 1; n <= 4; n++ {
			seats = append(seats, bookingapi.SeatInfo{Row: "A", SeatNumber: n, IsAvailable: true, Price: 200, Status: "available"})
		}
		response.RespondJSON(c, "success", http.StatusOK, "seats", gin.H{"showId": c.Param("showId"), "seats": seats}, nil)
	})
	engine.POST("/locks", func(c *gin.Context) {
		s.mu.Lock()
		s.nextLock++
		id := fmt.Sprintf("L%d", s.nextLock)
		s.granted = append(s.granted, id)
		s.mu.Unlock()
		response.RespondJSON(c, "success", http.StatusCreated, "locked", bookingapi.LockGrant{LockID: id, ExpiresAt: time.Now().Add(10 * time.Minute)}, nil)
	})
	engine.POST("/locks/:lockId/release", func(c *gin.Context) {
		s.mu.Lock()
		s.released = append(s.released, c.Param("lockId"))
		s.mu.Unlock()
		response.RespondJSON(c, "success", http.StatusOK, "released", gin.H{"released": true}, nil)
	})
	engine.POST("/bookings", func(c *gin.Context) {
		var req bookingapi.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid booking", response.KindValidation, err, nil)
			return
		}
		s.mu.Lock()
		s.booked = append(s.booked, req)
		s.mu.Unlock()
		response.RespondJSON(c, "success", http.StatusCreated, "booked", gin.H{"booking": bookingapi.Booking{
			ID:         "b-1",
			BookingRef: "BK20261018QWERTY",
			ShowID:     req.ShowID,
			Seats:      req.Seats,
			TotalSeats: len(req.Seats),
			TotalPrice: 200 * float64(len(req.Seats)),
			Status:     "CONFIRMED",
		}}, nil)
	})
	return engine
}

func runScript(t *testing.T, script string) (*bookingStub, string) {
	t.Helper()
	stub := &bookingStub{}
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	cfg := &config.ClientConfig{
		BaseURL:        srv.URL,
		Token:          "dev-token",
		RequestTimeout: 2 * time.Second,
		ReleaseTimeout: time.Second,
	}
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := run(ctx, cfg, "show-1", strings.NewReader(script), &out, logger.Discard()); err != nil {
		t.Fatalf("run() error = %v\n%s", err, out.String())
	}
	return stub, out.String()
}

func TestRunBooksSelection(t *testing.T) {
	stub, out := runScript(t, "select A1 A2\ndeselect A1\npay card\n")
	stub.mu.Lock()
	defer stub.mu.Unlock()

	if !strings.Contains(out, "booked 1 seats, reference BK20261018QWERTY") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if len(stub.booked) != 1 {
		t.Fatalf("bookings = %d, want 1", len(stub.booked))
	}
	req := stub.booked[0]
	if len(req.Seats) != 1 || req.Seats[0].Row != "A" || req.Seats[0].SeatNumber != 2 {
		t.Errorf("booked seats = %+v, want A2", req.Seats)
	}

	// Every lock except the consumed one is released.
	released := make(map[string]bool)
	for _, id := range stub.released {
		released[id] = true
	}
	if released[req.LockID] {
		t.Errorf("booked lock %s was released", req.LockID)
	}
	for _, id := range stub.granted {
		if id != req.LockID && !released[id] {
			t.Errorf("lock %s leaked", id)
		}
	}
}

func TestRunReleasesOnEOF(t *testing.T) {
	stub, out := runScript(t, "select A3\nshow\n")
	stub.mu.Lock()
	defer stub.mu.Unlock()

	if !strings.Contains(out, "A3[*]") {
		t.Errorf("seat map does not show the selection:\n%s", out)
	}
	if len(stub.granted) != 1 || len(stub.released) != 1 || stub.released[0] != stub.granted[0] {
		t.Errorf("granted = %v released = %v", stub.granted, stub.released)
	}
}
