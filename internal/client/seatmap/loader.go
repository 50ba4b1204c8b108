package seatmap

import (
	"context"
	"errors"
	"fmt"

	"seatlock/internal/client/bookingapi"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when the show does not exist
var ErrNotFound = errors.New("show not found")

// Show is the show detail record
type Show = bookingapi.Show

// Source is the part of the booking service the loader reads from
type Source interface {
	GetShow(ctx context.Context, showID string) (*bookingapi.Show, error)
	GetSeats(ctx context.Context, showID string) ([]bookingapi.SeatInfo, error)
}

type Loader struct {
	source Source
}

func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load fetches the show and its seats concurrently. There are no retries;
// a failure is either ErrNotFound or the underlying transport error.
func (l *Loader) Load(ctx context.Context, showID string) (*Show, *SeatMap, error) {
	var (
		show  *bookingapi.Show
		seats []bookingapi.SeatInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		show, err = l.source.GetShow(gctx, showID)
		return err
	})
	g.Go(func() error {
		var err error
		seats, err = l.source.GetSeats(gctx, showID)
		return err
	})
	if err := g.Wait(); err != nil {
		if bookingapi.KindOf(err) == bookingapi.KindNotFound {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrNotFound, showID, err)
		}
		return nil, nil, fmt.Errorf("load show %s: %w", showID, err)
	}

	items := make([]Seat, 0, len(seats))
	for _, s := range seats {
		items = append(items, Seat{
			Key:    SeatKey{Row: s.Row, Number: s.SeatNumber},
			Price:  s.Price,
			Status: ParseStatus(s.Status, s.IsAvailable),
		})
	}
	return show, New(showID, items), nil
}
