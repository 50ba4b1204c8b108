package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"seatlock/internal/client/bookingapi"
	"seatlock/internal/client/seatmap"
	"seatlock/pkg/logger"

	"github.com/google/uuid"
)

const (
	opSelect   = "select"
	opDeselect = "deselect"
	opSubmit   = "submit"
	opRelease  = "release"
)

const (
	defaultReleaseTimeout = 5 * time.Second
	releaseAttempts       = 2
)

// BookingService is the remote side of a session. *bookingapi.Client
// implements it. Calls must honor ctx deadlines.
type BookingService interface {
	AcquireLock(ctx context.Context, showID string, seats []bookingapi.SeatRef) (*bookingapi.LockGrant, error)
	ReleaseLock(ctx context.Context, lockID string) error
	CreateBooking(ctx context.Context, req bookingapi.BookingRequest) (*bookingapi.Booking, error)
}

// pendingRequest is the authoritative in-flight lock request
type pendingRequest struct {
	generation uint64
	seats      []seatmap.SeatKey
}

// Coordinator keeps the server lock in step with the seats a user has
// selected for one show. Operations may be called from several goroutines;
// responses are applied in generation order and older ones are discarded.
type Coordinator struct {
	service BookingService
	seatMap *seatmap.SeatMap
	showID  string
	log     *logger.Logger

	releaseTimeout time.Duration

	mu         sync.Mutex
	latest     uint64
	selection  []seatmap.SeatKey
	handle     *LockHandle
	pending    *pendingRequest
	terminal   bool
	committing bool

	releases sync.WaitGroup
}

type Option func(*Coordinator)

func WithLogger(l *logger.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithReleaseTimeout bounds each background release attempt
func WithReleaseTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.releaseTimeout = d
		}
	}
}

func NewCoordinator(service BookingService, seatMap *seatmap.SeatMap, opts ...Option) *Coordinator {
	c := &Coordinator{
		service:        service,
		seatMap:        seatMap,
		showID:         seatMap.ShowID(),
		releaseTimeout: defaultReleaseTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetDefault()
	}
	c.log = c.log.WithSession(uuid.NewString(), c.showID)
	return c
}

// SeatMap returns the seat map the coordinator validates against
func (c *Coordinator) SeatMap() *seatmap.SeatMap {
	return c.seatMap
}

// target is the selection the next request builds on: the candidate of the
// authoritative in-flight request, or the settled selection. Callers hold mu.
func (c *Coordinator) target() []seatmap.SeatKey {
	if c.pending != nil {
		return c.pending.seats
	}
	return c.selection
}

// checkMutable rejects selection changes once the session ended or while a
// booking is being submitted. Callers hold mu.
func (c *Coordinator) checkMutable(op string) error {
	if c.terminal {
		return validationError(op, "session has ended")
	}
	if c.committing {
		return validationError(op, "booking in progress")
	}
	return nil
}

// SelectSeat adds key to the selection and locks the grown set. It returns
// nil without changing anything when a later operation superseded it.
func (c *Coordinator) SelectSeat(ctx context.Context, key seatmap.SeatKey) error {
	c.mu.Lock()
	if err := c.checkMutable(opSelect); err != nil {
		c.mu.Unlock()
		return err
	}
	seat, ok := c.seatMap.Get(key)
	if !ok {
		c.mu.Unlock()
		return validationError(opSelect, "seat %s does not exist", key)
	}
	if seat.Status != seatmap.Available {
		c.mu.Unlock()
		return validationError(opSelect, "seat %s is %s", key, seat.Status)
	}
	target := c.target()
	if contains(target, key) {
		c.mu.Unlock()
		return validationError(opSelect, "seat %s is already selected", key)
	}
	candidate := make([]seatmap.SeatKey, 0, len(target)+1)
	candidate = append(candidate, target...)
	candidate = append(candidate, key)
	g := c.issue(candidate)
	c.mu.Unlock()

	grant, err := c.service.AcquireLock(ctx, c.showID, refs(candidate))
	return c.applyAcquire(ctx, opSelect, g, candidate, grant, err)
}

// DeselectSeat removes key from the selection. The remaining seats are
// re-locked under a fresh lock; an empty remainder just releases the lock.
func (c *Coordinator) DeselectSeat(ctx context.Context, key seatmap.SeatKey) error {
	c.mu.Lock()
	if err := c.checkMutable(opDeselect); err != nil {
		c.mu.Unlock()
		return err
	}
	target := c.target()
	if !contains(target, key) {
		c.mu.Unlock()
		return validationError(opDeselect, "seat %s is not selected", key)
	}
	remainder := without(target, key)

	if len(remainder) == 0 {
		// Fence off any in-flight request; its grant is compensated on arrival.
		c.latest++
		c.pending = nil
		c.selection = nil
		prev := c.takeHandle()
		c.mu.Unlock()
		c.releaseHandle(prev, "deselected")
		return nil
	}

	g := c.issue(remainder)
	c.mu.Unlock()

	grant, err := c.service.AcquireLock(ctx, c.showID, refs(remainder))
	return c.applyAcquire(ctx, opDeselect, g, remainder, grant, err)
}

// Teardown ends the session: the active lock is released in the background
// and in-flight requests are fenced off. It never blocks and is safe to call
// more than once.
func (c *Coordinator) Teardown() {
	c.mu.Lock()
	if c.terminal {
		c.mu.Unlock()
		return
	}
	c.terminal = true
	c.latest++
	c.pending = nil
	c.selection = nil
	prev := c.takeHandle()
	c.mu.Unlock()

	c.releaseHandle(prev, "teardown")
}

// Wait blocks until background releases have finished or ctx is done
func (c *Coordinator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.releases.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// issue allocates the next generation for a request over seats. Callers hold mu.
func (c *Coordinator) issue(seats []seatmap.SeatKey) uint64 {
	c.latest++
	c.pending = &pendingRequest{generation: c.latest, seats: seats}
	return c.latest
}

// takeHandle detaches the current handle. Callers hold mu.
func (c *Coordinator) takeHandle() *LockHandle {
	h := c.handle
	c.handle = nil
	return h
}

// applyAcquire applies the response of the lock request issued as generation g
func (c *Coordinator) applyAcquire(ctx context.Context, op string, g uint64, seats []seatmap.SeatKey, grant *bookingapi.LockGrant, callErr error) error {
	if callErr == nil && grant == nil {
		callErr = errors.New("empty lock grant")
	}

	c.mu.Lock()
	if g != c.latest {
		latest := c.latest
		c.mu.Unlock()
		c.log.LogStaleResponse(ctx, op, g, latest)
		if callErr == nil {
			c.release(grant.LockID, "stale")
		}
		return nil
	}
	c.pending = nil

	if callErr != nil {
		sessErr := classify(op, callErr)
		var prev *LockHandle
		if op == opDeselect {
			c.selection = nil
			prev = c.takeHandle()
		}
		c.mu.Unlock()

		if sessErr.Kind == KindLockConflict {
			c.refreshConflicts(callErr)
		}
		c.releaseHandle(prev, "deselect failed")
		return sessErr
	}

	next := &LockHandle{
		Token:      grant.LockID,
		Generation: g,
		Seats:      seats,
		Status:     Active,
		ExpiresAt:  grant.ExpiresAt,
	}
	prev := c.handle
	c.handle = next
	c.selection = seats
	c.mu.Unlock()

	c.log.LogLockAcquired(ctx, next.Token, g, len(seats))
	c.releaseHandle(prev, "superseded")
	return nil
}

// refreshConflicts marks seats reported by a conflict as unavailable
func (c *Coordinator) refreshConflicts(err error) {
	for key, status := range conflictStatuses(err) {
		c.seatMap.MarkUnavailable(key, status)
	}
}

// releaseHandle marks h released and frees its lock in the background.
// Expired handles are released too since the server may still hold them.
func (c *Coordinator) releaseHandle(h *LockHandle, reason string) {
	if h == nil || h.Status == Released {
		return
	}
	c.mu.Lock()
	h.Status = Released
	c.mu.Unlock()
	c.release(h.Token, reason)
}

// release frees lockID in the background. A failed attempt is retried once,
// then abandoned; the lock TTL reclaims it on the server.
func (c *Coordinator) release(lockID, reason string) {
	c.releases.Add(1)
	go func() {
		defer c.releases.Done()

		var err error
		for attempt := 1; attempt <= releaseAttempts; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), c.releaseTimeout)
			err = c.service.ReleaseLock(ctx, lockID)
			cancel()
			if err == nil {
				c.log.LogLockReleased(context.Background(), lockID, reason)
				return
			}
			if k := classify(opRelease, err).Kind; k != KindNetwork && k != KindTimeout {
				break
			}
		}
		c.log.WithError(err).Warn("Lock release abandoned",
			"lock_id", lockID,
			"reason", reason,
		)
	}()
}

// State reports the coordinator's lifecycle state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Coordinator) stateLocked() State {
	switch {
	case c.terminal:
		return Terminal
	case c.pending != nil:
		return Settling
	case len(c.selection) == 0:
		return Empty
	}
	return Settled
}

// Selection returns the settled selection in selection order
func (c *Coordinator) Selection() []seatmap.SeatKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]seatmap.SeatKey(nil), c.selection...)
}

// Handle returns a copy of the current lock handle, or nil
func (c *Coordinator) Handle() *LockHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle.clone()
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:      c.stateLocked(),
		Selection:  append([]seatmap.SeatKey(nil), c.selection...),
		Handle:     c.handle.clone(),
		Generation: c.latest,
		Committing: c.committing,
	}
}

// Summary is the booking summary of the settled selection
type Summary struct {
	Seats     []seatmap.Seat
	Count     int
	Total     float64
	LockID    string
	ExpiresAt time.Time
}

func (c *Coordinator) Summary() Summary {
	c.mu.Lock()
	selection := append([]seatmap.SeatKey(nil), c.selection...)
	var s Summary
	if c.handle != nil && c.handle.Status == Active {
		s.LockID = c.handle.Token
		s.ExpiresAt = c.handle.ExpiresAt
	}
	c.mu.Unlock()

	for _, key := range selection {
		seat, ok := c.seatMap.Get(key)
		if !ok {
			continue
		}
		s.Seats = append(s.Seats, seat)
		s.Total += seat.Price
	}
	s.Count = len(s.Seats)
	return s
}

func refs(keys []seatmap.SeatKey) []bookingapi.SeatRef {
	out := make([]bookingapi.SeatRef, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Ref())
	}
	return out
}
