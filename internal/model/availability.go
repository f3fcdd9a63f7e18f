package model

// AvailabilitySnapshot is the read-only projection returned by the
// availability query.  The field layout mirrors the public response
// contract: train details with route, per-class counts with a berth
// breakdown, quota flags, cancellation tiers and alternates.  A sold
// out pool is a valid snapshot, never an error.
type AvailabilitySnapshot struct {
	TrainDetails      TrainDetails                      `json:"train_details"`
	ClassAvailability map[TravelClass]ClassAvailability `json:"class_availability"`
	AdditionalInfo    AdditionalInfo                    `json:"additional_info"`
	AlternateOptions  []AlternateOption                 `json:"alternate_options"`
}

// TrainDetails identifies the train and leg the snapshot covers.
type TrainDetails struct {
	TrainName   string    `json:"train_name"`
	TrainNumber string    `json:"train_number"`
	TravelDate  string    `json:"travel_date"`
	Route       RouteInfo `json:"route"`
}

// RouteInfo is the route block of the snapshot.
type RouteInfo struct {
	StartStation  string `json:"start_station"`
	EndStation    string `json:"end_station"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Duration      string `json:"duration"`
}

// BerthAvailability is the per-berth-type slice of a class.
type BerthAvailability struct {
	Total      int   `json:"total"`
	Available  int   `json:"available"`
	PricePaise int64 `json:"price_paise"`
}

// ClassAvailability aggregates one class across its berth types.
// Status is "Available" iff AvailableSeats > 0, else "Waiting List".
type ClassAvailability struct {
	TotalSeats        int                             `json:"total_seats"`
	AvailableSeats    int                             `json:"available_seats"`
	WaitingList       int                             `json:"waiting_list"`
	BerthAvailability map[BerthType]BerthAvailability `json:"berth_availability"`
	Status            string                          `json:"status"`
	BaseFarePaise     int64                           `json:"base_fare_paise"`
	BookingStatus     string                          `json:"booking_status"`
}

// CancellationCharges documents the refund tiers in effect.
type CancellationCharges struct {
	Within4Hours  string `json:"within_4_hours"`
	Hours4To12    string `json:"4_to_12_hours"`
	Before12Hours string `json:"before_12_hours"`
}

// AdditionalInfo carries quota flags and operational metadata.
type AdditionalInfo struct {
	TatkalAvailable        bool                `json:"tatkal_available"`
	PremiumTatkalAvailable bool                `json:"premium_tatkal_available"`
	CancellationCharges    CancellationCharges `json:"cancellation_charges"`
	LastUpdated            string              `json:"last_updated"`
}

// AlternateOption is another train serving the same leg on the same
// date, offered so callers can present fallbacks without a second
// round trip.
type AlternateOption struct {
	TrainName      string      `json:"train_name"`
	TrainNumber    string      `json:"train_number"`
	DepartureTime  string      `json:"departure_time"`
	AvailableSeats int         `json:"available_seats"`
	Class          TravelClass `json:"class"`
}
