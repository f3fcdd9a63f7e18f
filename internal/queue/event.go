// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names, one per booking lifecycle transition.
const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
	QueueWaitlistPromoted = "waitlist.promoted"
)

// BookingEvent is published on every booking lifecycle transition.  It
// carries enough for downstream consumers to log, notify or feed
// analytics without querying the engine.
type BookingEvent struct {
	BookingID   string   `json:"booking_id"`
	TrainNumber string   `json:"train_number"`
	TravelDate  string   `json:"travel_date"`
	Class       string   `json:"class"`
	BerthType   string   `json:"berth_type"`
	Quota       string   `json:"quota"`
	Seats       int      `json:"seats"`
	Berths      []string `json:"berths,omitempty"`
	Status      string   `json:"status"`
	FarePaise   int64    `json:"fare_paise"`
	RefundPaise int64    `json:"refund_paise,omitempty"`
	ChargePaise int64    `json:"charge_paise,omitempty"`
	Position    uint64   `json:"waitlist_position,omitempty"`
	OccurredAt  string   `json:"occurred_at"`
}
