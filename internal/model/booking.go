package model

import "time"

// BookingStatus is the lifecycle state of a booking.  The only legal
// transitions are CONFIRMED→CANCELLED, WAITLISTED→CONFIRMED (promotion)
// and WAITLISTED→CANCELLED (withdrawal).  CANCELLED is terminal.
type BookingStatus string

const (
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusWaitlisted BookingStatus = "WAITLISTED"
	StatusCancelled  BookingStatus = "CANCELLED"
)

// Booking is the audit-trail record of one reservation attempt.  After
// creation only Status and the cancellation fields ever change; seats,
// fare and timestamps are written once.
//
// Fields:
//  ID                – unique booking identifier (UUID).
//  Key               – inventory pool the booking draws from.
//  Quota             – allocation channel used.
//  Seats             – number of berths requested.
//  Berths            – assigned berth labels when CONFIRMED (empty
//                      while WAITLISTED).
//  Passenger         – free-form passenger reference.
//  Status            – current lifecycle state.
//  WaitlistPosition  – queue position while WAITLISTED, 0 otherwise.
//  FarePaise         – total fare charged at booking time.
//  RefundPaise       – amount refunded on cancellation.
//  ChargePaise       – cancellation charge retained.
//  CreatedAt         – when the booking was made.
//  CancelledAt       – when it was cancelled (nil otherwise).
type Booking struct {
	ID               string
	Key              InventoryKey
	Quota            Quota
	Seats            int
	Berths           []string
	Passenger        string
	Status           BookingStatus
	WaitlistPosition uint64
	FarePaise        int64
	RefundPaise      int64
	ChargePaise      int64
	CreatedAt        time.Time
	CancelledAt      *time.Time
}
