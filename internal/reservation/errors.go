package reservation

import "errors"

// Caller-facing error taxonomy.  The coordinator translates every
// internal ledger/waitlist failure into one of these; nothing below
// this set leaks to handlers.  Handlers map them onto HTTP statuses.

// ErrNotFound is returned for an unknown booking id or a query against
// a train/date the schedule does not cover.
var ErrNotFound = errors.New("not found")

// ErrInvalidRequest is returned for malformed dates, unknown stations,
// classes, berth types or quotas, and out-of-range seat counts.
var ErrInvalidRequest = errors.New("invalid request")

// ErrQuotaNotOpen is returned when a tatkal or premium-tatkal booking
// arrives before that quota's window opens.
var ErrQuotaNotOpen = errors.New("quota not open")

// ErrWaitlistFull is returned when the pool is sold out and its
// waitlist has reached the configured cap.
var ErrWaitlistFull = errors.New("waitlist full")

// ErrAlreadyCancelled is returned on a repeated cancel.  Cancellation
// is deliberately not idempotent-success so client bugs surface.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrDeparted is returned when the train has already left: the booking
// record is terminal and no further transition is allowed.
var ErrDeparted = errors.New("train already departed")

// ErrBusy is returned when the per-pool lock cannot be acquired within
// the configured bound.  The request can be retried.
var ErrBusy = errors.New("inventory busy, retry")
