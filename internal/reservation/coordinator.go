// Package reservation orchestrates booking and cancellation across the
// inventory ledger and the waitlists.  All mutations of one inventory
// scope (train/date/class) are serialized through a keyed lock with a
// bounded wait; reads never take that lock.  The lock is held only for
// in-memory mutation — events are published after release.
package reservation

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/railway-seat-reservation/internal/catalog"
	"github.com/iliyamo/railway-seat-reservation/internal/config"
	"github.com/iliyamo/railway-seat-reservation/internal/fare"
	"github.com/iliyamo/railway-seat-reservation/internal/ledger"
	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/waitlist"
)

// maxSeatsPerBooking bounds one booking to a family-sized group.
const maxSeatsPerBooking = 6

// EventSink receives booking lifecycle notifications after the
// inventory scope has been released.  Implementations must not block
// the caller; a nil sink disables events.
type EventSink interface {
	BookingConfirmed(model.Booking)
	BookingCancelled(model.Booking)
	WaitlistPromoted(model.Booking)
}

// BookRequest carries one booking attempt as received from the caller,
// still unvalidated.
type BookRequest struct {
	Train          string // train name or number
	TravelDate     string // YYYY-MM-DD
	StartStation   string
	EndStation     string
	Class          string
	Berth          string
	Quota          string
	Seats          int
	Passenger      string
	IdempotencyKey string // optional; retries with the same key return the original booking
}

// Coordinator owns the booking store and drives the Book/Cancel
// protocols over the ledger and waitlists.
type Coordinator struct {
	ledger    *ledger.Ledger
	waitlists *waitlist.Registry
	fares     *fare.Calculator
	catalog   *catalog.Catalog
	cfg       config.Config
	sink      EventSink
	locks     *keyLock
	berths    *berthAllocator

	// Now is the clock; tests override it to pin quota windows and
	// refund tiers.
	Now func() time.Time

	mu          sync.RWMutex
	bookings    map[string]*model.Booking
	idem        map[string]string
	inflight    map[string]bool
	allocations map[string][]int // bookingID -> berth numbers
}

// New wires a coordinator.  sink may be nil.
func New(l *ledger.Ledger, w *waitlist.Registry, f *fare.Calculator, cat *catalog.Catalog, cfg config.Config, sink EventSink) *Coordinator {
	return &Coordinator{
		ledger:      l,
		waitlists:   w,
		fares:       f,
		catalog:     cat,
		cfg:         cfg,
		sink:        sink,
		locks:       newKeyLock(),
		berths:      newBerthAllocator(),
		Now:         time.Now,
		bookings:    make(map[string]*model.Booking),
		idem:        make(map[string]string),
		inflight:    make(map[string]bool),
		allocations: make(map[string][]int),
	}
}

// OpenHorizon opens inventory for every catalog train across the
// configured booking horizon, starting today.  Called once at startup;
// Open is idempotent so re-running after a schedule reload is safe.
func (c *Coordinator) OpenHorizon() {
	day := c.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < c.cfg.BookingHorizonDays; i++ {
		date := day.AddDate(0, 0, i).Format("2006-01-02")
		for _, t := range c.catalog.All() {
			c.ledger.OpenTrain(t, date)
		}
	}
}

// QuotaOpen reports whether quota can be booked now for a departure.
// GENERAL is open from schedule publication until departure; tatkal
// quotas open a fixed number of hours before departure.
func QuotaOpen(cfg config.Config, quota model.Quota, departure, now time.Time) bool {
	if !now.Before(departure) {
		return false
	}
	switch quota {
	case model.QuotaTatkal:
		return departure.Sub(now) <= time.Duration(cfg.TatkalOpenHours)*time.Hour
	case model.QuotaPremiumTatkal:
		return departure.Sub(now) <= time.Duration(cfg.PremiumTatkalOpenHours)*time.Hour
	default:
		return true
	}
}

// scopeID is the mutual-exclusion unit: one train/date/class.  All
// berth pools of a class share a scope so berth fallback and
// cancel-then-promote never cross lock boundaries.
func scopeID(key model.InventoryKey) string {
	return key.TrainNumber + "/" + key.TravelDate + "/" + string(key.Class)
}

// Book runs the booking protocol and returns the resulting booking,
// CONFIRMED or WAITLISTED.  Insufficient inventory is never surfaced:
// it becomes a waitlist entry or ErrWaitlistFull.
func (c *Coordinator) Book(req BookRequest) (model.Booking, error) {
	train, key, quota, departure, err := c.validate(req)
	if err != nil {
		return model.Booking{}, err
	}

	if req.IdempotencyKey != "" {
		if b, done, err := c.claimIdempotent(req.IdempotencyKey); done {
			return b, err
		}
		defer c.releaseIdempotent(req.IdempotencyKey)
	}

	now := c.Now().UTC()
	if !now.Before(departure) {
		return model.Booking{}, ErrDeparted
	}
	if !QuotaOpen(c.cfg, quota, departure, now) {
		return model.Booking{}, ErrQuotaNotOpen
	}

	c.ledger.OpenTrain(train, key.TravelDate)

	scope := scopeID(key)
	if !c.locks.acquire(scope, c.cfg.LockWait) {
		return model.Booking{}, ErrBusy
	}

	booking, err := c.bookLocked(key, quota, req, now)
	c.locks.release(scope)
	if err != nil {
		return model.Booking{}, err
	}

	if req.IdempotencyKey != "" {
		c.mu.Lock()
		c.idem[req.IdempotencyKey] = booking.ID
		c.mu.Unlock()
	}
	if c.sink != nil && booking.Status == model.StatusConfirmed {
		c.sink.BookingConfirmed(booking)
	}
	return booking, nil
}

// bookLocked is the critical section of Book: decrement or enqueue.
// Caller holds the scope lock.
func (c *Coordinator) bookLocked(key model.InventoryKey, quota model.Quota, req BookRequest, now time.Time) (model.Booking, error) {
	target, rec, ok := c.pickPool(key, req.Seats)
	if !ok {
		// sold out across permitted pools: waitlist on the requested key
		q := c.waitlists.For(key, quota)
		if q.Len() >= c.cfg.WaitlistMax {
			return model.Booking{}, ErrWaitlistFull
		}
		snap, err := c.ledger.Snapshot(key)
		if err != nil {
			return model.Booking{}, ErrNotFound
		}
		b := &model.Booking{
			ID:        uuid.New().String(),
			Key:       key,
			Quota:     quota,
			Seats:     req.Seats,
			Passenger: req.Passenger,
			Status:    model.StatusWaitlisted,
			FarePaise: c.fares.Price(snap, quota) * int64(req.Seats),
			CreatedAt: now,
		}
		b.WaitlistPosition = q.Enqueue(b.ID, b.Passenger, b.Seats, key.Berth, now)
		c.mu.Lock()
		c.bookings[b.ID] = b
		c.mu.Unlock()
		return copyBooking(b), nil
	}

	// price from the committed record before this decrement, so the
	// quote a caller just saw is the price they pay
	farePaise := c.fares.Price(rec, quota) * int64(req.Seats)
	if _, err := c.ledger.TryDecrement(target, req.Seats); err != nil {
		// pickPool ran under the same scope lock, so the pool cannot
		// have moved; treat any failure as unknown key
		return model.Booking{}, ErrNotFound
	}
	nos := c.berths.pool(target, rec.Total).take(req.Seats)
	labels := make([]string, len(nos))
	for i, n := range nos {
		labels[i] = berthLabel(target, n)
	}
	b := &model.Booking{
		ID:        uuid.New().String(),
		Key:       target,
		Quota:     quota,
		Seats:     req.Seats,
		Berths:    labels,
		Passenger: req.Passenger,
		Status:    model.StatusConfirmed,
		FarePaise: farePaise,
		CreatedAt: now,
	}
	c.mu.Lock()
	c.bookings[b.ID] = b
	c.allocations[b.ID] = nos
	c.mu.Unlock()
	return copyBooking(b), nil
}

// pickPool chooses the pool to decrement: the requested berth type, or
// — when fallback is enabled — the first berth type with room, in
// stable berth order.
func (c *Coordinator) pickPool(key model.InventoryKey, seats int) (model.InventoryKey, model.InventoryRecord, bool) {
	rec, err := c.ledger.Snapshot(key)
	if err == nil && rec.Available() >= seats {
		return key, rec, true
	}
	if !c.cfg.BerthFallback {
		return key, rec, false
	}
	for _, bt := range model.BerthTypes {
		if bt == key.Berth {
			continue
		}
		alt := key
		alt.Berth = bt
		if r, err := c.ledger.Snapshot(alt); err == nil && r.Available() >= seats {
			return alt, r, true
		}
	}
	return key, rec, false
}

// Cancel runs the cancellation protocol: restore inventory, promote
// the waitlist front inside the same scope, settle the refund.
func (c *Coordinator) Cancel(bookingID string) (model.Booking, error) {
	c.mu.RLock()
	b, ok := c.bookings[bookingID]
	c.mu.RUnlock()
	if !ok {
		return model.Booking{}, ErrNotFound
	}

	train, err := c.catalog.Lookup(b.Key.TrainNumber)
	if err != nil {
		return model.Booking{}, ErrNotFound
	}
	departure, err := catalog.DepartureAt(train, b.Key.TravelDate)
	if err != nil {
		return model.Booking{}, ErrInvalidRequest
	}
	now := c.Now().UTC()
	if !now.Before(departure) {
		return model.Booking{}, ErrDeparted
	}

	scope := scopeID(b.Key)
	if !c.locks.acquire(scope, c.cfg.LockWait) {
		return model.Booking{}, ErrBusy
	}
	cancelled, promoted, err := c.cancelLocked(b.ID, departure, now)
	c.locks.release(scope)
	if err != nil {
		return model.Booking{}, err
	}

	if c.sink != nil {
		c.sink.BookingCancelled(cancelled)
		for _, p := range promoted {
			c.sink.WaitlistPromoted(p)
		}
	}
	return cancelled, nil
}

// cancelLocked is the critical section of Cancel.  Caller holds the
// scope lock, which also serializes against concurrent promotion of
// the same booking.
func (c *Coordinator) cancelLocked(bookingID string, departure, now time.Time) (model.Booking, []model.Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.bookings[bookingID]
	if !ok {
		return model.Booking{}, nil, ErrNotFound
	}
	if b.Status == model.StatusCancelled {
		return model.Booking{}, nil, ErrAlreadyCancelled
	}

	var promoted []model.Booking
	switch b.Status {
	case model.StatusConfirmed:
		if err := c.ledger.Increment(b.Key, b.Seats); err != nil {
			return model.Booking{}, nil, ErrNotFound
		}
		if nos, ok := c.allocations[b.ID]; ok {
			rec, _ := c.ledger.Snapshot(b.Key)
			c.berths.pool(b.Key, rec.Total).free(nos)
			delete(c.allocations, b.ID)
		}
		b.ChargePaise = b.FarePaise * int64(c.retainedPct(departure, now)) / 100
		b.RefundPaise = b.FarePaise - b.ChargePaise
		promoted = c.promoteLocked(b.Key, b.Quota)
	case model.StatusWaitlisted:
		c.waitlists.For(b.Key, b.Quota).Withdraw(b.ID)
		// a waitlisted passenger never held a seat: full refund
		b.ChargePaise = 0
		b.RefundPaise = b.FarePaise
		b.WaitlistPosition = 0
	}

	b.Status = model.StatusCancelled
	t := now
	b.CancelledAt = &t
	return copyBooking(b), promoted, nil
}

// promoteLocked hands freed seats to the front of the matching-quota
// waitlist, in strict position order, before the scope is released —
// no new booking can slip in ahead of the queue.  Promotion stops at
// the first front entry that needs more seats than remain free.
func (c *Coordinator) promoteLocked(key model.InventoryKey, quota model.Quota) []model.Booking {
	q := c.waitlists.For(key, quota)
	var promoted []model.Booking
	for {
		front := q.PeekFront()
		if front == nil {
			return promoted
		}
		if _, err := c.ledger.TryDecrement(key, front.Seats); err != nil {
			return promoted
		}
		q.DequeueFront()

		wb := c.bookings[front.BookingID]
		rec, _ := c.ledger.Snapshot(key)
		nos := c.berths.pool(key, rec.Total).take(front.Seats)
		labels := make([]string, len(nos))
		for i, n := range nos {
			labels[i] = berthLabel(key, n)
		}
		wb.Status = model.StatusConfirmed
		wb.Berths = labels
		wb.WaitlistPosition = 0
		c.allocations[wb.ID] = nos
		promoted = append(promoted, copyBooking(wb))
	}
}

// retainedPct returns the percentage of fare kept as cancellation
// charge for the time remaining to departure.
func (c *Coordinator) retainedPct(departure, now time.Time) int {
	left := departure.Sub(now)
	switch {
	case left >= time.Duration(c.cfg.RefundFullHours)*time.Hour:
		return 0
	case left >= time.Duration(c.cfg.RefundHalfHours)*time.Hour:
		return c.cfg.HalfChargePct
	default:
		return c.cfg.LateChargePct
	}
}

// SnapshotFor exposes the committed ledger record for a key.  Handlers
// use it to attach current availability to booking failures.
func (c *Coordinator) SnapshotFor(key model.InventoryKey) (model.InventoryRecord, error) {
	rec, err := c.ledger.Snapshot(key)
	if err != nil {
		return model.InventoryRecord{}, ErrNotFound
	}
	return rec, nil
}

// Get returns a copy of the booking audit record.
func (c *Coordinator) Get(bookingID string) (model.Booking, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bookings[bookingID]
	if !ok {
		return model.Booking{}, ErrNotFound
	}
	return copyBooking(b), nil
}

// claimIdempotent resolves a client idempotency key.  done=true means
// the caller should return b/err as-is: either the original booking or
// ErrBusy while the first attempt is still in flight.
func (c *Coordinator) claimIdempotent(key string) (model.Booking, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.idem[key]; ok {
		if b, ok := c.bookings[id]; ok {
			return copyBooking(b), true, nil
		}
	}
	if c.inflight[key] {
		return model.Booking{}, true, ErrBusy
	}
	c.inflight[key] = true
	return model.Booking{}, false, nil
}

func (c *Coordinator) releaseIdempotent(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

// validate resolves and checks every request field against the
// catalog and the closed enumerations.
func (c *Coordinator) validate(req BookRequest) (model.Train, model.InventoryKey, model.Quota, time.Time, error) {
	var zero model.Train
	train, err := c.catalog.Lookup(strings.TrimSpace(req.Train))
	if err != nil {
		return zero, model.InventoryKey{}, "", time.Time{}, ErrNotFound
	}
	if req.StartStation != "" && !strings.EqualFold(req.StartStation, train.Route.StartStation) {
		return zero, model.InventoryKey{}, "", time.Time{}, ErrInvalidRequest
	}
	if req.EndStation != "" && !strings.EqualFold(req.EndStation, train.Route.EndStation) {
		return zero, model.InventoryKey{}, "", time.Time{}, ErrInvalidRequest
	}
	if _, err := time.Parse("2006-01-02", req.TravelDate); err != nil {
		return zero, model.InventoryKey{}, "", time.Time{}, ErrInvalidRequest
	}
	if !model.ValidClass(req.Class) {
		return zero, model.InventoryKey{}, "", time.Time{}, ErrInvalidRequest
	}
	if _, ok := train.Layouts[model.TravelClass(req.Class)]; !ok {
		return zero, model.InventoryKey{}, "", time.Time{}, ErrInvalidRequest
	}
	if !model.ValidBerth(req.Berth) || !model.ValidQuota(req.Quota) {
		return zero, model.InventoryKey{}, "", time.Time{}, ErrInvalidRequest
	}
	if req.Seats < 1 || req.Seats > maxSeatsPerBooking {
		return zero, model.InventoryKey{}, "", time.Time{}, ErrInvalidRequest
	}
	departure, err := catalog.DepartureAt(train, req.TravelDate)
	if err != nil {
		return zero, model.InventoryKey{}, "", time.Time{}, ErrInvalidRequest
	}
	key := model.InventoryKey{
		TrainNumber: train.Number,
		TravelDate:  req.TravelDate,
		Class:       model.TravelClass(req.Class),
		Berth:       model.BerthType(req.Berth),
	}
	return train, key, model.Quota(req.Quota), departure, nil
}

func copyBooking(b *model.Booking) model.Booking {
	out := *b
	out.Berths = append([]string(nil), b.Berths...)
	return out
}
