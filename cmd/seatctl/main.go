package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"seatlock/internal/client/bookingapi"
	"seatlock/internal/client/seatmap"
	"seatlock/internal/client/session"
	"seatlock/internal/shared/config"
	"seatlock/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const helpText = `commands:
  select A1 [A2 ...]   select seats (several seats are clicked concurrently)
  deselect A1          deselect a seat
  show                 print the seat map
  summary              print the selected seats and total
  pay METHOD           book the selection (card, upi, wallet)
  quit                 release the lock and exit`

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment variables")
	}
	cfg := config.LoadClient()

	showID := pflag.String("show", "", "show id to book seats for")
	pflag.StringVar(&cfg.BaseURL, "api-url", cfg.BaseURL, "booking service base URL")
	pflag.StringVar(&cfg.Token, "token", cfg.Token, "bearer token identifying the user")
	pflag.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "deadline for each booking service call")
	pflag.DurationVar(&cfg.ReleaseTimeout, "release-timeout", cfg.ReleaseTimeout, "deadline for each lock release")
	pflag.Parse()

	if *showID == "" {
		fmt.Fprintln(os.Stderr, "--show is required")
		pflag.Usage()
		os.Exit(2)
	}

	os.Setenv("LOG_LEVEL", cfg.LogLevel)
	log := logger.NewWithWriter(os.Stderr)
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *showID, os.Stdin, os.Stdout, log); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.ClientConfig, showID string, in io.Reader, out io.Writer, log *logger.Logger) error {
	client := bookingapi.NewClient(cfg, bookingapi.WithLogger(log))

	show, seats, err := seatmap.NewLoader(client).Load(ctx, showID)
	if err != nil {
		return session.Classify("load", err)
	}

	coord := session.NewCoordinator(client, seats,
		session.WithLogger(log),
		session.WithReleaseTimeout(cfg.ReleaseTimeout),
	)
	// Every exit path releases whatever lock the session still holds.
	defer func() {
		coord.Teardown()
		waitCtx, cancel := context.WithTimeout(context.Background(), 2*cfg.ReleaseTimeout+time.Second)
		defer cancel()
		if err := coord.Wait(waitCtx); err != nil {
			log.Warn("Exiting before lock release finished", "error", err)
		}
	}()

	fmt.Fprintf(out, "%s at %s, %s\n", show.MovieTitle, show.VenueName, show.StartsAt.Local().Format("Mon 02 Jan 15:04"))
	printSeatMap(out, coord)
	fmt.Fprintln(out, helpText)

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
	}()

	submitter := session.NewSubmitter(coord)
	for {
		fmt.Fprint(out, "> ")
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok = <-lines:
			if !ok {
				return nil
			}
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
		case "select", "s":
			selectSeats(ctx, out, coord, args)
		case "deselect", "d":
			for _, label := range args {
				key, err := seatmap.ParseSeatKey(label)
				if err != nil {
					fmt.Fprintln(out, err)
					continue
				}
				if err := coord.DeselectSeat(ctx, key); err != nil {
					fmt.Fprintln(out, describe(err))
				}
			}
			printSummary(out, coord)
		case "show":
			printSeatMap(out, coord)
		case "summary":
			printSummary(out, coord)
		case "pay":
			if len(args) != 1 {
				fmt.Fprintln(out, "usage: pay METHOD")
				continue
			}
			result, err := submitter.Submit(ctx, args[0])
			if err != nil {
				fmt.Fprintln(out, describe(err))
				if errors.Is(err, session.ErrSessionExpired) {
					fmt.Fprintln(out, "your seats were released, please select them again")
				}
				continue
			}
			b := result.Booking
			fmt.Fprintf(out, "booked %d seats, reference %s, total %.2f\n", b.TotalSeats, b.BookingRef, b.TotalPrice)
			return nil
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			fmt.Fprintln(out, helpText)
		default:
			fmt.Fprintf(out, "unknown command %q\n", cmd)
		}
	}
}

// selectSeats issues one select per seat at once, like rapid clicks
func selectSeats(ctx context.Context, out io.Writer, coord *session.Coordinator, labels []string) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, label := range labels {
		key, err := seatmap.ParseSeatKey(label)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		wg.Add(1)
		go func(key seatmap.SeatKey) {
			defer wg.Done()
			if err := coord.SelectSeat(ctx, key); err != nil {
				mu.Lock()
				fmt.Fprintf(out, "%s: %s\n", key, describe(err))
				mu.Unlock()
			}
		}(key)
	}
	wg.Wait()
	printSummary(out, coord)
}

func describe(err error) string {
	var sessErr *session.Error
	if !errors.As(err, &sessErr) {
		return err.Error()
	}
	switch sessErr.Kind {
	case session.KindLockConflict:
		return "seats just taken by someone else: " + err.Error()
	case session.KindTimeout, session.KindNetwork:
		return "booking service unavailable, try again: " + err.Error()
	}
	return err.Error()
}

func printSummary(out io.Writer, coord *session.Coordinator) {
	s := coord.Summary()
	if s.Count == 0 {
		fmt.Fprintln(out, "no seats selected")
		return
	}
	labels := make([]string, 0, len(s.Seats))
	for _, seat := range s.Seats {
		labels = append(labels, seat.Key.String())
	}
	fmt.Fprintf(out, "selected %s (%d), total %.2f, held until %s\n",
		strings.Join(labels, " "), s.Count, s.Total, s.ExpiresAt.Local().Format("15:04:05"))
}

// printSeatMap prints one line per row: [ ] available, [*] selected,
// [x] sold, [-] held by someone else
func printSeatMap(out io.Writer, coord *session.Coordinator) {
	selected := make(map[seatmap.SeatKey]bool)
	for _, key := range coord.Selection() {
		selected[key] = true
	}
	for _, row := range coord.SeatMap().Rows() {
		var b strings.Builder
		for _, seat := range row {
			mark := " "
			switch {
			case selected[seat.Key]:
				mark = "*"
			case seat.Status == seatmap.Sold:
				mark = "x"
			case seat.Status == seatmap.LockedByOther:
				mark = "-"
			}
			fmt.Fprintf(&b, "%4s[%s]", seat.Key, mark)
		}
		fmt.Fprintln(out, b.String())
	}
}
