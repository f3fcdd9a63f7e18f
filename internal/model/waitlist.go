package model

import "time"

// WaitlistEntry is one pending request queued behind a sold-out pool.
// Position is assigned once at enqueue time from a per-queue monotonic
// sequence; entries are never renumbered, so the number stays a stable
// identifier even after earlier entries leave the queue.
type WaitlistEntry struct {
	Position   uint64
	BookingID  string
	Passenger  string
	Seats      int
	Berth      BerthType
	EnqueuedAt time.Time
}
