package seatmap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"seatlock/internal/client/bookingapi"
)

type fakeSource struct {
	show     *bookingapi.Show
	seats    []bookingapi.SeatInfo
	showErr  error
	seatsErr error
}

func (f *fakeSource) GetShow(ctx context.Context, _ string) (*bookingapi.Show, error) {
	return f.show, f.showErr
}

func (f *fakeSource) GetSeats(ctx context.Context, _ string) ([]bookingapi.SeatInfo, error) {
	return f.seats, f.seatsErr
}

func TestParseSeatKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SeatKey
		wantErr bool
	}{
		{in: "A1", want: SeatKey{Row: "A", Number: 1}},
		{in: " b12 ", want: SeatKey{Row: "B", Number: 12}},
		{in: "AA3", want: SeatKey{Row: "AA", Number: 3}},
		{in: "12", wantErr: true},
		{in: "A", wantErr: true},
		{in: "A0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeatKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeatKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSeatKey(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	src := &fakeSource{
		show: &bookingapi.Show{ID: "s1", MovieTitle: "Interstellar", StartsAt: time.Now()},
		seats: []bookingapi.SeatInfo{
			{Row: "A", SeatNumber: 2, IsAvailable: true, Price: 200, Status: "available"},
			{Row: "A", SeatNumber: 1, IsAvailable: false, Price: 200, Status: "sold"},
			{Row: "B", SeatNumber: 1, IsAvailable: false, Price: 300, Status: "locked"},
			{Row: "B", SeatNumber: 2, IsAvailable: true, Price: 300},
		},
	}

	show, m, err := NewLoader(src).Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if show.MovieTitle != "Interstellar" || m.ShowID() != "s1" {
		t.Errorf("show = %+v", show)
	}

	want := map[string]Status{"A1": Sold, "A2": Available, "B1": LockedByOther, "B2": Available}
	for label, status := range want {
		key, _ := ParseSeatKey(label)
		seat, ok := m.Get(key)
		if !ok || seat.Status != status {
			t.Errorf("seat %s = %+v (found %v), want status %v", label, seat, ok, status)
		}
	}

	rows := m.Rows()
	if len(rows) != 2 || rows[0][0].Key.String() != "A1" || rows[0][1].Key.String() != "A2" {
		t.Errorf("Rows() = %+v", rows)
	}
}

func TestLoadErrors(t *testing.T) {
	notFound := &bookingapi.APIError{StatusCode: 404, Kind: bookingapi.KindNotFound}
	_, _, err := NewLoader(&fakeSource{showErr: notFound}).Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
	}

	netErr := &bookingapi.TransportError{Op: "get seats", Err: context.DeadlineExceeded}
	_, _, err = NewLoader(&fakeSource{show: &bookingapi.Show{}, seatsErr: netErr}).Load(context.Background(), "s1")
	var te *bookingapi.TransportError
	if !errors.As(err, &te) || !te.Timeout() {
		t.Errorf("Load(timeout) error = %v, want timed out *TransportError", err)
	}
}

func TestMarkUnavailable(t *testing.T) {
	a1 := SeatKey{Row: "A", Number: 1}
	a2 := SeatKey{Row: "A", Number: 2}
	m := New("s1", []Seat{{Key: a1, Status: Available}, {Key: a2, Status: Sold}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.MarkUnavailable(a1, LockedByOther)
			m.MarkUnavailable(a2, LockedByOther)
			m.Seats()
		}()
	}
	wg.Wait()

	if s, _ := m.Get(a1); s.Status != LockedByOther {
		t.Errorf("A1 status = %v, want locked", s.Status)
	}
	if s, _ := m.Get(a2); s.Status != Sold {
		t.Errorf("A2 status = %v, sold seats must stay sold", s.Status)
	}

	m.MarkUnavailable(SeatKey{Row: "Z", Number: 9}, Sold)
	if len(m.Seats()) != 2 {
		t.Error("MarkUnavailable added an unknown seat")
	}
}
