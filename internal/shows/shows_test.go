package shows

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seatlock/internal/locks"
	"seatlock/internal/shared/middleware"
	"seatlock/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type fakeRepository struct {
	shows    map[uuid.UUID]*Show
	seats    map[uuid.UUID][]ShowSeat
	getCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		shows: map[uuid.UUID]*Show{},
		seats: map[uuid.UUID][]ShowSeat{},
	}
}

func (f *fakeRepository) Create(_ context.Context, show *Show, seats []ShowSeat) error {
	if show.ID == uuid.Nil {
		show.ID = uuid.New()
	}
	f.shows[show.ID] = show
	for i := range seats {
		seats[i].ShowID = show.ID
	}
	f.seats[show.ID] = seats
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id uuid.UUID) (*Show, error) {
	f.getCalls++
	show, ok := f.shows[id]
	if !ok {
		return nil, ErrShowNotFound
	}
	return show, nil
}

func (f *fakeRepository) GetSeats(_ context.Context, showID uuid.UUID) ([]ShowSeat, error) {
	return f.seats[showID], nil
}

func (f *fakeRepository) FindSeats(_ context.Context, showID uuid.UUID, refs []locks.SeatRef) ([]ShowSeat, error) {
	var out []ShowSeat
	for _, seat := range f.seats[showID] {
		for _, ref := range refs {
			if seat.Row == ref.Row && seat.SeatNumber == ref.SeatNumber {
				out = append(out, seat)
			}
		}
	}
	return out, nil
}

type fakeLockReader map[string]string

func (f fakeLockReader) SeatHolders(_ context.Context, _ string, keys []string) (map[string]string, error) {
	out := map[string]string{}
	for _, key := range keys {
		if holder, ok := f[key]; ok {
			out[key] = holder
		}
	}
	return out, nil
}

func seedShow(t *testing.T, repo *fakeRepository) *Show {
	t.Helper()
	show := &Show{
		MovieTitle: "Interstellar",
		VenueName:  "PVR Phoenix",
		StartsAt:   time.Date(2026, 11, 1, 18, 30, 0, 0, time.UTC),
		Price:      250,
	}
	seats := []ShowSeat{
		{Row: "A", SeatNumber: 1, Price: 250, Status: SeatStatusAvailable},
		{Row: "A", SeatNumber: 2, Price: 250, Status: SeatStatusAvailable},
		{Row: "A", SeatNumber: 3, Price: 250, Status: SeatStatusSold},
		{Row: "B", SeatNumber: 1, Price: 300, Status: SeatStatusAvailable},
	}
	if err := repo.Create(context.Background(), show, seats); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return show
}

func TestGetShowCached(t *testing.T) {
	repo := newFakeRepository()
	show := seedShow(t, repo)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewService(repo, cache.NewService(client), time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.GetShow(ctx, show.ID.String())
		if err != nil {
			t.Fatalf("GetShow() error = %v", err)
		}
		if got.MovieTitle != "Interstellar" || got.Price != 250 {
			t.Errorf("GetShow() = %+v", got)
		}
	}
	if repo.getCalls != 1 {
		t.Errorf("repository hit %d times, want 1", repo.getCalls)
	}
}

func TestGetShowErrors(t *testing.T) {
	svc := NewService(newFakeRepository(), nil, 0)

	if _, err := svc.GetShow(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidShowID) {
		t.Errorf("GetShow(bad id) error = %v, want ErrInvalidShowID", err)
	}
	if _, err := svc.GetShow(context.Background(), uuid.NewString()); !errors.Is(err, ErrShowNotFound) {
		t.Errorf("GetShow(unknown) error = %v, want ErrShowNotFound", err)
	}
}

func TestGetSeatsMergesHolds(t *testing.T) {
	repo := newFakeRepository()
	show := seedShow(t, repo)

	svc := NewService(repo, nil, 0)
	svc.SetLockReader(fakeLockReader{"A:1": "alice", "B:1": "bob"})

	tests := []struct {
		name   string
		holder string
		want   map[string]string
	}{
		{
			name:   "anonymous sees every hold",
			holder: "",
			want:   map[string]string{"A1": "locked", "A2": "available", "A3": "sold", "B1": "locked"},
		},
		{
			name:   "own holds stay available",
			holder: "alice",
			want:   map[string]string{"A1": "available", "A2": "available", "A3": "sold", "B1": "locked"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetSeats(context.Background(), show.ID.String(), tt.holder)
			if err != nil {
				t.Fatalf("GetSeats() error = %v", err)
			}
			if len(resp.Seats) != 4 {
				t.Fatalf("got %d seats, want 4", len(resp.Seats))
			}
			for _, seat := range resp.Seats {
				key := locks.SeatRef{Row: seat.Row, SeatNumber: seat.SeatNumber}.String()
				if seat.Status != tt.want[key] {
					t.Errorf("seat %s status = %q, want %q", key, seat.Status, tt.want[key])
				}
				if seat.IsAvailable != (seat.Status == AvailabilityAvailable) {
					t.Errorf("seat %s isAvailable = %v with status %q", key, seat.IsAvailable, seat.Status)
				}
			}
		})
	}
}

func TestSeatInventory(t *testing.T) {
	repo := newFakeRepository()
	show := seedShow(t, repo)
	inventory := NewSeatInventory(repo)
	ctx := context.Background()

	check, err := inventory.CheckSeats(ctx, show.ID.String(), []locks.SeatRef{
		{Row: "A", SeatNumber: 1},
		{Row: "A", SeatNumber: 3},
		{Row: "Z", SeatNumber: 9},
	})
	if err != nil {
		t.Fatalf("CheckSeats() error = %v", err)
	}
	if !check.ShowFound {
		t.Fatal("ShowFound = false")
	}
	if len(check.Sold) != 1 || check.Sold[0].String() != "A3" {
		t.Errorf("Sold = %v, want [A3]", check.Sold)
	}
	if len(check.Unknown) != 1 || check.Unknown[0].String() != "Z9" {
		t.Errorf("Unknown = %v, want [Z9]", check.Unknown)
	}

	check, err = inventory.CheckSeats(ctx, uuid.NewString(), []locks.SeatRef{{Row: "A", SeatNumber: 1}})
	if err != nil {
		t.Fatalf("CheckSeats(unknown show) error = %v", err)
	}
	if check.ShowFound {
		t.Error("ShowFound = true for unknown show")
	}
}

func TestControllerGetSeats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := newFakeRepository()
	show := seedShow(t, repo)
	svc := NewService(repo, nil, 0)
	svc.SetLockReader(fakeLockReader{"A:2": "alice"})

	engine := gin.New()
	setHolder := func(c *gin.Context) {
		if h := c.GetHeader("X-Test-Holder"); h != "" {
			c.Set(middleware.HolderKey, h)
		}
	}
	SetupShowRoutes(engine.Group("/api/v1"), NewController(svc), setHolder)

	t.Run("ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/shows/"+show.ID.String()+"/seats", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var body struct {
			Data SeatsResponse `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.Data.Seats) != 4 || body.Data.Seats[1].Status != AvailabilityLocked {
			t.Errorf("seats = %+v", body.Data.Seats)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/shows/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
		var body struct {
			Errors struct {
				ErrorKind string `json:"errorKind"`
			} `json:"errors"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Errors.ErrorKind != "not_found" {
			t.Errorf("errorKind = %q, want not_found", body.Errors.ErrorKind)
		}
	})
}
