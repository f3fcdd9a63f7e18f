// Package waitlist implements the per-pool FIFO queues that hold
// booking requests which arrived after a pool sold out.  Each
// (inventory key, quota) pair owns an independent queue with its own
// monotonic sequence space; tatkal and general waitlists never mix.
package waitlist

import (
	"sync"
	"time"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
)

// Queue is a single FIFO waitlist.  Positions are assigned from a
// strictly increasing counter and are never reused or renumbered;
// withdrawal marks an entry dead and it is skipped on dequeue.
type Queue struct {
	mu        sync.Mutex
	nextPos   uint64
	entries   []*model.WaitlistEntry
	byBooking map[string]*model.WaitlistEntry
	withdrawn map[uint64]bool
}

// NewQueue returns an empty queue whose first position will be 1.
func NewQueue() *Queue {
	return &Queue{
		byBooking: make(map[string]*model.WaitlistEntry),
		withdrawn: make(map[uint64]bool),
	}
}

// Enqueue appends an entry for bookingID and returns its position.
func (q *Queue) Enqueue(bookingID, passenger string, seats int, berth model.BerthType, at time.Time) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextPos++
	e := &model.WaitlistEntry{
		Position:   q.nextPos,
		BookingID:  bookingID,
		Passenger:  passenger,
		Seats:      seats,
		Berth:      berth,
		EnqueuedAt: at,
	}
	q.entries = append(q.entries, e)
	q.byBooking[bookingID] = e
	return e.Position
}

// DequeueFront removes and returns the live entry with the lowest
// position, or nil when the queue is empty.  Withdrawn entries are
// discarded on the way.
func (q *Queue) DequeueFront() *model.WaitlistEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.entries) > 0 {
		e := q.entries[0]
		q.entries = q.entries[1:]
		if q.withdrawn[e.Position] {
			delete(q.withdrawn, e.Position)
			continue
		}
		delete(q.byBooking, e.BookingID)
		return e
	}
	return nil
}

// PeekFront returns the live entry with the lowest position without
// removing it, or nil when the queue is empty.  Withdrawn entries at
// the head are discarded.
func (q *Queue) PeekFront() *model.WaitlistEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.entries) > 0 {
		e := q.entries[0]
		if q.withdrawn[e.Position] {
			delete(q.withdrawn, e.Position)
			q.entries = q.entries[1:]
			continue
		}
		return e
	}
	return nil
}

// Withdraw removes the entry belonging to bookingID without disturbing
// the positions of anything behind it.  It reports whether an entry
// was found.
func (q *Queue) Withdraw(bookingID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.byBooking[bookingID]
	if !ok {
		return false
	}
	delete(q.byBooking, bookingID)
	q.withdrawn[e.Position] = true
	return true
}

// Len returns the number of live entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.byBooking)
}

// Registry hands out the queue for a (key, quota) pair, creating it on
// first use.  Queues are never removed while the process lives; a
// drained queue is a few empty slices.
type Registry struct {
	mu     sync.Mutex
	queues map[string]*Queue
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{queues: make(map[string]*Queue)}
}

// For returns the queue for key and quota, creating it if needed.
func (r *Registry) For(key model.InventoryKey, quota model.Quota) *Queue {
	id := key.String() + "|" + string(quota)
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[id]
	if !ok {
		q = NewQueue()
		r.queues[id] = q
	}
	return q
}

// LenFor returns the live length of the queue for key and quota
// without creating one.
func (r *Registry) LenFor(key model.InventoryKey, quota model.Quota) int {
	id := key.String() + "|" + string(quota)
	r.mu.Lock()
	q, ok := r.queues[id]
	r.mu.Unlock()
	if !ok {
		return 0
	}
	return q.Len()
}
